package fsext

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.Equal(t, filepath.Join(base, "data"), Resolve(base, "data"))
	require.Equal(t, filepath.Join(base, "a", "b"), Resolve(base, filepath.Join("a", "..", "a", "b")))

	abs := filepath.Join(t.TempDir(), "elsewhere")
	require.Equal(t, abs, Resolve(base, abs))
	require.True(t, IsAbs(abs))
	require.False(t, IsAbs("relative"))
}
