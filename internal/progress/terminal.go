package progress

import (
	"os"
	"runtime"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// enableANSIOnWindows enables Virtual Terminal processing on Windows.
// The implementation lives in ansi_windows.go.
func enableANSIOnWindows(f *os.File) {
	if runtime.GOOS == "windows" {
		enableWindowsANSI(f)
	}
}
