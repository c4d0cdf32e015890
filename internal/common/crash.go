package common

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// CrashReport captures a fatal panic for post-mortem review of unattended runs.
type CrashReport struct {
	Time       time.Time
	PanicValue interface{}
	Stack      string
}

// String renders the report as plain text
func (r CrashReport) String() string {
	var b strings.Builder
	b.WriteString("=== CRYPTODIGEST CRASH REPORT ===\n")
	fmt.Fprintf(&b, "Time: %s\n", r.Time.Format(time.RFC3339))
	fmt.Fprintf(&b, "Version: %s\n", GetFullVersion())
	fmt.Fprintf(&b, "Runtime: %s %s/%s\n\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "=== PANIC ===\n%v\n\n", r.PanicValue)
	fmt.Fprintf(&b, "=== STACK ===\n%s\n", r.Stack)
	return b.String()
}

// WriteCrashFile writes the report to dir/crash-<timestamp>.log and returns its path.
// The report is echoed to stderr when the file cannot be written.
func WriteCrashFile(dir string, report CrashReport) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprint(os.Stderr, report.String())
		return "", fmt.Errorf("failed to create crash directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", report.Time.Format("2006-01-02T15-04-05")))
	if err := os.WriteFile(path, []byte(report.String()), 0644); err != nil {
		fmt.Fprint(os.Stderr, report.String())
		return "", fmt.Errorf("failed to write crash file: %w", err)
	}
	return path, nil
}

// RecoverAndExit is deferred at the top of main. A panic is written to a crash
// file under dir and the process exits with status 2.
func RecoverAndExit(dir string) {
	r := recover()
	if r == nil {
		return
	}

	report := CrashReport{Time: time.Now(), PanicValue: r, Stack: string(debug.Stack())}
	if path, err := WriteCrashFile(dir, report); err == nil {
		fmt.Fprintf(os.Stderr, "\n!!! FATAL CRASH - Report saved to: %s !!!\n", path)
	}
	fmt.Fprintf(os.Stderr, "Panic: %v\n", r)
	os.Exit(2)
}

// CrashDirectory returns the logs directory beside the executable, or ./logs.
func CrashDirectory() string {
	if dir, err := logsDirectory(); err == nil {
		return dir
	}
	return "logs"
}
