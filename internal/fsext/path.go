package fsext

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Resolve returns p when it is absolute and p joined onto base otherwise.
// On Windows a path rooted with a slash counts as absolute as well.
func Resolve(base, p string) string {
	if IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// IsAbs is filepath.IsAbs, also accepting slash-rooted paths on Windows.
func IsAbs(p string) bool {
	if runtime.GOOS == "windows" && strings.HasPrefix(filepath.ToSlash(p), "/") {
		return true
	}
	return filepath.IsAbs(p)
}
