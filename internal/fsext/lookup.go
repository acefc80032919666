// Package fsext finds files around the working directory.
package fsext

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// Lookup returns every target found in dir and its ancestors, closest
// first. Within a directory, targets are reported in the order given.
// Entries owned by someone other than the owner of dir are skipped, so a
// search never picks up another user's files.
func Lookup(dir string, targets ...string) ([]string, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	owner, err := Owner(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot get ownership: %w", err)
	}

	var found []string
	for cwd, err := range Ancestors(dir) {
		if err != nil {
			return nil, err
		}
		for _, target := range targets {
			path := filepath.Join(cwd, target)
			err := probe(path, owner)
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("error probing file %s: %w", path, err)
			}
			found = append(found, path)
		}
	}
	return found, nil
}

// Ancestors yields the absolute form of dir followed by each of its parents
// up to the filesystem root.
func Ancestors(dir string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cwd, err := filepath.Abs(dir)
		if err != nil {
			yield("", fmt.Errorf("cannot convert %s to absolute path: %w", dir, err))
			return
		}
		for {
			if !yield(cwd, nil) {
				return
			}
			parent := filepath.Dir(cwd)
			if parent == cwd {
				return
			}
			cwd = parent
		}
	}
}

// probe checks that path exists and belongs to owner.
func probe(path string, owner int) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if owner == AnyOwner {
		return nil
	}

	fowner, err := Owner(path)
	if err != nil {
		return fmt.Errorf("cannot get ownership for %s: %w", path, err)
	}
	if fowner != owner {
		return os.ErrPermission
	}
	return nil
}
