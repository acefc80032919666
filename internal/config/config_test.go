package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cwd := t.TempDir()

	cfg, err := Load(cwd, "", false)
	require.NoError(t, err)
	require.Equal(t, cwd, cfg.WorkingDir())
	require.Equal(t, filepath.Join(cwd, defaultDataDirectory), cfg.Options.DataDirectory)
	require.Equal(t, DefaultAssumedHeight, cfg.Scroller.AssumedHeight)
	require.Equal(t, DefaultOverscanRatio, cfg.Scroller.Overscan())
	require.Equal(t, 100*time.Millisecond, cfg.Scroller.ScrollWait())
	require.Equal(t, 100*time.Millisecond, cfg.Scroller.ScrollMaxWait())
	require.Equal(t, 500*time.Millisecond, cfg.Scroller.PositioningTimeout())
	require.Equal(t, "feed", cfg.Scroller.CacheKey)
	require.True(t, cfg.Scroller.Persist())
	require.Equal(t, DefaultPosts, cfg.Demo.Posts)
	require.Equal(t, filepath.Join(cwd, defaultDataDirectory, "turbo.db"), cfg.HeightsDB())
}

func TestLoadMergesGlobalAndProject(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	writeFile(t, filepath.Join(xdg, "turbo", "turbo.json"), `{
		"scroller": {"assumed_height": 4, "overscan_ratio": 2, "cache_key": "global"},
		"demo": {"posts": 10}
	}`)

	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, ".turbo.json"), `{"scroller": {"overscan_ratio": 1}}`)
	writeFile(t, filepath.Join(cwd, "turbo.json"), `{"scroller": {"cache_key": "project", "persist_heights": false}}`)

	dataDir := t.TempDir()
	cfg, err := Load(cwd, dataDir, true)
	require.NoError(t, err)

	require.Equal(t, 4, cfg.Scroller.AssumedHeight)
	require.Equal(t, 1.0, cfg.Scroller.Overscan())
	require.Equal(t, "project", cfg.Scroller.CacheKey)
	require.False(t, cfg.Scroller.Persist())
	require.Equal(t, 10, cfg.Demo.Posts)
	require.Equal(t, dataDir, cfg.Options.DataDirectory)
	require.True(t, cfg.Options.Debug)
}

func TestLoadResolvesRelativeDataDirectory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "turbo.json"), `{"options": {"data_directory": "state/turbo"}}`)

	cfg, err := Load(cwd, "", false)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cwd, "state", "turbo"), cfg.Options.DataDirectory)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "turbo.json"), `{"scroller": {"assumed_height": -2, "overscan_ratio": -1}}`)

	_, err := Load(cwd, "", false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "assumed_height")
	require.Contains(t, err.Error(), "overscan_ratio")
}

func TestLoadReader(t *testing.T) {
	t.Parallel()

	cfg, err := LoadReader(strings.NewReader(`{"$schema": "https://example.com/turbo.json", "demo": {"seed": 7}}`))
	require.NoError(t, err)
	require.Equal(t, "https://example.com/turbo.json", cfg.Schema)
	require.Equal(t, int64(7), cfg.Demo.Seed)

	_, err = LoadReader(strings.NewReader(`{`))
	require.Error(t, err)
}

func TestGlobalPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/fakeconfig")
	t.Setenv("XDG_DATA_HOME", "/tmp/fakedata")

	require.Equal(t, filepath.FromSlash("/tmp/fakeconfig/turbo/turbo.json"), GlobalConfig())
	require.Equal(t, filepath.FromSlash("/tmp/fakedata/turbo/turbo.json"), GlobalConfigData())
}

func TestProjectConfigPath(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()
	require.Equal(t, filepath.Join(cwd, "turbo.json"), ProjectConfigPath(cwd))

	writeFile(t, filepath.Join(cwd, ".turbo.json"), `{}`)
	require.Equal(t, filepath.Join(cwd, ".turbo.json"), ProjectConfigPath(cwd))
}

func TestHotReloaderReload(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cwd := t.TempDir()
	path := filepath.Join(cwd, "turbo.json")
	writeFile(t, path, `{"scroller": {"overscan_ratio": 1}}`)

	manager := NewConfigManager()
	_, err := manager.InitConfig(cwd, t.TempDir(), false)
	require.NoError(t, err)

	hr, err := NewHotReloader(manager, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = hr.Stop() })

	var seen []float64
	hr.AddCallback(func(c *Config) error {
		seen = append(seen, c.Scroller.Overscan())
		return nil
	})

	writeFile(t, path, `{"scroller": {"overscan_ratio": 3}}`)
	require.NoError(t, hr.Reload())
	require.Equal(t, []float64{3}, seen)

	s, err := manager.Scroller()
	require.NoError(t, err)
	require.Equal(t, 3.0, s.Overscan())

	// A failing callback rolls the configuration back.
	hr.AddCallback(func(*Config) error { return errors.New("nope") })
	writeFile(t, path, `{"scroller": {"overscan_ratio": 4}}`)
	require.Error(t, hr.Reload())
	s, err = manager.Scroller()
	require.NoError(t, err)
	require.Equal(t, 3.0, s.Overscan())
}

func TestHotReloaderWatchesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cwd := t.TempDir()
	path := filepath.Join(cwd, "turbo.json")
	writeFile(t, path, `{}`)

	manager := NewConfigManager()
	_, err := manager.InitConfig(cwd, t.TempDir(), false)
	require.NoError(t, err)

	hr, err := NewHotReloader(manager, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = hr.Stop() })

	reloaded := make(chan float64, 8)
	hr.AddCallback(func(c *Config) error {
		reloaded <- c.Scroller.Overscan()
		return nil
	})
	require.NoError(t, hr.Start())

	// Replace the file in one step so the watcher never sees it half written.
	tmp := filepath.Join(t.TempDir(), "turbo.json")
	writeFile(t, tmp, `{"scroller": {"overscan_ratio": 2}}`)
	require.NoError(t, os.Rename(tmp, path))
	select {
	case got := <-reloaded:
		require.Equal(t, 2.0, got)
	case <-time.After(5 * time.Second):
		t.Fatal("configuration was not reloaded")
	}
}

func TestConfigManagerNotLoaded(t *testing.T) {
	t.Parallel()

	cm := NewConfigManager()
	_, err := cm.Scroller()
	require.ErrorIs(t, err, ErrConfigNotLoaded)
}
