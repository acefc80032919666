// Package home deals with paths relative to the user's home directory.
package home

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Dir returns the user's home directory. When it cannot be found a temporary
// directory stands in for it.
var Dir = sync.OnceValue(func() string {
	home, err := os.UserHomeDir()
	if err == nil {
		return home
	}
	tmp, err := os.MkdirTemp("", "turbo")
	if err != nil {
		slog.Error("Could not find the user home directory")
		return ""
	}
	slog.Warn("Could not find the user home directory, using a temporary one", "home", tmp)
	return tmp
})

// Short replaces the home directory prefix of p with `~`.
func Short(p string) string {
	dir := Dir()
	if dir == "" || !strings.HasPrefix(p, dir) {
		return p
	}
	return filepath.Join("~", strings.TrimPrefix(p, dir))
}
