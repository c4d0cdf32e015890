// Package prompt assembles the analyst prompt from quotes and headlines.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ternarybob/cryptodigest/internal/common"
)

// Preamble sets the model's role.
const Preamble = "You are a professional market analyst writing a daily investor email."

// Directives are the fixed analysis instructions, emitted verbatim and in order.
var Directives = []string{
	"Summarize the key factual news.",
	"Label sentiment for each stock (Bullish / Bearish / Neutral).",
	"Explain how Bitcoin price action may affect these stocks.",
	"Predict short-term impact (no price targets, no financial advice).",
	"Write clearly and professionally.",
}

// StockSection is the fetched data for one registry entry.
type StockSection struct {
	Ticker    common.Ticker
	Quote     string
	Headlines string
}

// Input is everything the prompt is built from. Stocks keep registry order.
type Input struct {
	BitcoinQuote string
	Stocks       []StockSection
}

// Build renders the prompt. It performs no validation and no truncation.
func Build(in Input) string {
	var stockBlock, newsBlock strings.Builder
	for _, stock := range in.Stocks {
		fmt.Fprintf(&stockBlock, "%s (%s): %s\n", stock.Ticker.Name, stock.Ticker.Symbol, stock.Quote)
		fmt.Fprintf(&newsBlock, "\n%s News:\n%s\n", stock.Ticker.Name, stock.Headlines)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(Preamble)
	b.WriteString("\n\nBITCOIN PRICE:\n")
	b.WriteString(in.BitcoinQuote)
	b.WriteString("\n\nSTOCK PRICES:\n")
	b.WriteString(stockBlock.String())
	b.WriteString("\n\nNEWS:\n")
	b.WriteString(newsBlock.String())
	b.WriteString("\n\nTASK:\n")
	for i, directive := range Directives {
		fmt.Fprintf(&b, "%d. %s\n", i+1, directive)
	}

	return b.String()
}
