// Package logger owns the process-wide hclog configuration for the coding CLI.
//
// The --verbose flag lowers the level from warn to debug so users can follow
// requests, retries and credential prompts. Components ask for a named
// logger with New; one-off messages go through Debug and Warn.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// rootName names messages written through Debug and Warn.
const rootName = "coding"

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose switches between debug and warn level.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Tests pass a buffer; the default is stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

// Level returns the level new loggers are created with.
func Level() hclog.Level {
	if IsVerbose() {
		return hclog.Debug
	}
	return hclog.Warn
}

// New returns a named logger bound to the current level and output.
// Timestamps are only printed in verbose mode.
func New(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		Level:       level,
		Output:      output,
		DisableTime: !verbose,
	})
}

// Debug logs a formatted message in verbose mode only.
func Debug(format string, args ...any) {
	New(rootName).Debug(fmt.Sprintf(format, args...))
}

// Warn logs a formatted message regardless of verbosity.
func Warn(format string, args ...any) {
	New(rootName).Warn(fmt.Sprintf(format, args...))
}
