package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/ccheck/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// MCPMode tracks if we're serving MCP over stdio (set by main).
// Debug output is always suppressed then: stdout/stderr belong to the
// protocol.
var MCPMode = false

var (
	debugMutex  sync.Mutex
	debugOutput io.Writer = os.Stderr
)

// SetMCPMode suppresses all debug output to stdio.
func SetMCPMode(enabled bool) {
	MCPMode = enabled
}

// SetOutput sets a custom writer for debug output. Pass nil to
// disable debug output entirely.
func SetOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// Enabled returns true if debug mode is on and we're not in MCP mode.
func Enabled() bool {
	if MCPMode {
		return false
	}
	if EnableDebug == "true" {
		return true
	}
	return os.Getenv("CCHECK_DEBUG") == "1" || os.Getenv("CCHECK_DEBUG") == "true"
}

// Printf prints debug information only when debug mode is enabled.
func Printf(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	debugMutex.Lock()
	w := debugOutput
	debugMutex.Unlock()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG] "+format, args...)
	if len(format) == 0 || format[len(format)-1] != '\n' {
		fmt.Fprintln(w)
	}
}
