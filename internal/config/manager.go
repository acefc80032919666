package config

import (
	"errors"
	"sync/atomic"
)

var ErrConfigNotLoaded = errors.New("config not loaded")

// ConfigManager holds the current configuration. Readers never block; a
// reload swaps the whole value.
type ConfigManager struct {
	config atomic.Pointer[Config]
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{}
}

// SetConfig sets the configuration atomically
func (cm *ConfigManager) SetConfig(cfg *Config) {
	cm.config.Store(cfg)
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config.Load()
}

// InitConfig loads and sets the configuration
func (cm *ConfigManager) InitConfig(workingDir, dataDir string, debug bool) (*Config, error) {
	cfg, err := Load(workingDir, dataDir, debug)
	if err != nil {
		return nil, err
	}
	cm.SetConfig(cfg)
	return cfg, nil
}

// Scroller returns the scroller options of the current configuration.
func (cm *ConfigManager) Scroller() (ScrollerOptions, error) {
	cfg := cm.GetConfig()
	if cfg == nil {
		return ScrollerOptions{}, ErrConfigNotLoaded
	}
	return cfg.Scroller, nil
}

// Reset clears the configuration (useful for testing)
func (cm *ConfigManager) Reset() {
	cm.config.Store(nil)
}

var defaultManager = NewConfigManager()

// Init loads the configuration into the default manager.
func Init(workingDir, dataDir string, debug bool) (*Config, error) {
	return defaultManager.InitConfig(workingDir, dataDir, debug)
}

// Get returns the configuration of the default manager.
func Get() *Config {
	return defaultManager.GetConfig()
}

// Manager returns the default manager.
func Manager() *ConfigManager {
	return defaultManager
}
