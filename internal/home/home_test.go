package home

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShort(t *testing.T) {
	t.Parallel()

	d := filepath.Join(Dir(), "documents", "file.txt")
	require.Equal(t, filepath.FromSlash("~/documents/file.txt"), Short(d))

	outside := filepath.FromSlash("/some/other/path")
	if Dir() != "/" {
		require.Equal(t, outside, Short(outside))
	}
}
