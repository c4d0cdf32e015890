package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCrashFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	report := CrashReport{
		Time:       time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		PanicValue: errors.New("nil map"),
		Stack:      "goroutine 1 [running]:",
	}

	path, err := WriteCrashFile(dir, report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "crash-2026-03-02T08-00-00.log"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "=== CRYPTODIGEST CRASH REPORT ===")
	assert.Contains(t, string(data), "nil map")
	assert.Contains(t, string(data), "goroutine 1 [running]:")
	assert.Contains(t, string(data), GetFullVersion())
}
