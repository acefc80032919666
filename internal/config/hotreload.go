package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/turbo/internal/log"
	"github.com/fsnotify/fsnotify"
)

// HotReloaderCallback is called with the new configuration after a reload.
// Returning an error rolls the reload back.
type HotReloaderCallback func(*Config) error

// HotReloader reloads the project configuration when its file changes.
type HotReloader struct {
	mu         sync.RWMutex
	manager    *ConfigManager
	configPath string
	workingDir string
	dataDir    string
	watcher    *fsnotify.Watcher
	callbacks  []HotReloaderCallback
	ctx        context.Context
	cancel     context.CancelFunc
	lastEvent  map[string]time.Time
}

// NewHotReloader watches configPath and stores reloaded configurations in
// manager.
func NewHotReloader(manager *ConfigManager, configPath string) (*HotReloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	hr := &HotReloader{
		manager:    manager,
		configPath: configPath,
		watcher:    watcher,
		ctx:        ctx,
		cancel:     cancel,
		lastEvent:  make(map[string]time.Time),
	}
	if cfg := manager.GetConfig(); cfg != nil {
		hr.workingDir = cfg.WorkingDir()
		hr.dataDir = cfg.Options.DataDirectory
	}
	return hr, nil
}

// ProjectConfigPath returns the closest existing project configuration file,
// or the path a new one would be created at.
func ProjectConfigPath(workingDir string) string {
	for _, name := range ProjectConfigNames {
		path := filepath.Join(workingDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(workingDir, ProjectConfigNames[0])
}

// Start begins watching for configuration changes
func (hr *HotReloader) Start() error {
	// Watching the directory catches editors that replace the file.
	if err := hr.watcher.Add(filepath.Dir(hr.configPath)); err != nil {
		return err
	}

	go hr.watchLoop()
	slog.Info("Configuration hot reloader started", "path", hr.configPath)
	return nil
}

// AddCallback adds a callback to be called when configuration changes
func (hr *HotReloader) AddCallback(callback HotReloaderCallback) {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	hr.callbacks = append(hr.callbacks, callback)
}

func (hr *HotReloader) watchLoop() {
	defer log.RecoverPanic("config.HotReloader", nil)

	const debounceTime = 500 * time.Millisecond

	for {
		select {
		case <-hr.ctx.Done():
			return
		case event, ok := <-hr.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(hr.configPath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			now := time.Now()
			if last, ok := hr.lastEvent[event.Name]; ok && now.Sub(last) < debounceTime {
				continue
			}
			hr.lastEvent[event.Name] = now

			slog.Debug("Configuration file changed, reloading", "file", event.Name)
			if err := hr.Reload(); err != nil {
				slog.Error("Failed to reload configuration", "error", err)
			}
		case err, ok := <-hr.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// Reload reads the configuration again and hands it to every callback.
func (hr *HotReloader) Reload() error {
	newConfig, err := Load(hr.workingDir, hr.dataDir, false)
	if err != nil {
		return err
	}

	oldConfig := hr.manager.GetConfig()
	hr.manager.SetConfig(newConfig)
	log.SetDebug(newConfig.Options.Debug)

	hr.mu.RLock()
	callbacks := make([]HotReloaderCallback, len(hr.callbacks))
	copy(callbacks, hr.callbacks)
	hr.mu.RUnlock()

	for i, callback := range callbacks {
		if err := callback(newConfig); err != nil {
			slog.Error("Configuration reload callback failed", "callback", i, "error", err)
			hr.manager.SetConfig(oldConfig)
			if oldConfig != nil {
				log.SetDebug(oldConfig.Options.Debug)
			}
			return err
		}
	}

	slog.Info("Configuration reloaded successfully")
	return nil
}

// Stop stops the hot reloader
func (hr *HotReloader) Stop() error {
	hr.cancel()
	return hr.watcher.Close()
}
