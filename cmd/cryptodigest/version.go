package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/cryptodigest/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Skips config loading so version works without credentials
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("CryptoDigest version %s\n", common.GetFullVersion())
	},
}
