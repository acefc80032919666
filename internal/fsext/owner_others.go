//go:build !windows

package fsext

import (
	"os"
	"syscall"
)

// AnyOwner is returned by Owner on systems without file ownership.
const AnyOwner = -1

// Owner returns the user ID owning path.
func Owner(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(stat.Uid), nil
	}
	return os.Getuid(), nil
}
