package term

import (
	"os"
	"strings"
)

// SupportsProgressBar tries to determine whether the current terminal supports
// progress bars by looking into environment variables.
func SupportsProgressBar() bool {
	return EnvSupportsProgressBar(os.Environ())
}

// EnvSupportsProgressBar is SupportsProgressBar for an arbitrary
// environment, such as the one a bubbletea program reports.
func EnvSupportsProgressBar(environ []string) bool {
	var termProg string
	isWindowsTerminal := false
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "TERM_PROGRAM":
			termProg = v
		case "WT_SESSION":
			isWindowsTerminal = true
		}
	}
	return isWindowsTerminal || strings.Contains(strings.ToLower(termProg), "ghostty")
}
