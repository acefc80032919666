package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/charmbracelet/turbo/internal/fsext"
	"github.com/charmbracelet/turbo/internal/home"
	"github.com/charmbracelet/turbo/internal/log"
	"github.com/qjebbs/go-jsons"
)

// Load loads the configuration from the default paths and sets up logging.
func Load(workingDir, dataDir string, debug bool) (*Config, error) {
	configPaths := lookupConfigs(workingDir)

	cfg, err := loadFromConfigPaths(configPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from paths %v: %w", configPaths, err)
	}

	cfg.setDefaults(workingDir, dataDir)
	if debug {
		cfg.Options.Debug = true
	}

	log.Setup(cfg.LogFile(), cfg.Options.Debug)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Debug("Loaded configuration", "paths", configPaths, "data_dir", cfg.Options.DataDirectory)
	return cfg, nil
}

// ProjectConfigNames are the file names looked up from the working directory
// upwards.
var ProjectConfigNames = []string{appName + ".json", "." + appName + ".json"}

func lookupConfigs(cwd string) []string {
	configPaths := []string{GlobalConfig()}

	found, err := fsext.Lookup(cwd, ProjectConfigNames...)
	if err != nil {
		slog.Warn("Failed to look up project configuration", "error", err)
		return configPaths
	}

	// Closer files come first; reverse so they are merged last and win.
	slices.Reverse(found)
	return append(configPaths, found...)
}

func loadFromConfigPaths(configPaths []string) (*Config, error) {
	var configs []io.Reader

	for _, path := range configPaths {
		fd, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer fd.Close()

		configs = append(configs, fd)
	}

	return loadFromReaders(configs)
}

func loadFromReaders(readers []io.Reader) (*Config, error) {
	if len(readers) == 0 {
		return &Config{}, nil
	}

	merged, err := jsons.Merge(readers)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configuration readers: %w", err)
	}

	return LoadReader(bytes.NewReader(merged))
}

// LoadReader decodes a single configuration document.
func LoadReader(fd io.Reader) (*Config, error) {
	data, err := io.ReadAll(fd)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GlobalConfig returns the path to the main configuration file for the user.
func GlobalConfig() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, appName+".json")
	}
	return filepath.Join(home.Dir(), ".config", appName, appName+".json")
}

// GlobalConfigData returns the path to the data directory file for the
// user.
func GlobalConfigData() string {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName, appName+".json")
	}

	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, appName+".json")
	}

	return filepath.Join(home.Dir(), ".local", "share", appName, appName+".json")
}
