package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the runtime limits and defaults of the tool runtime.
type Config struct {
	// CmdTimeoutSec bounds every external binary invocation.
	CmdTimeoutSec int `json:"cmd_timeout_sec,omitempty"`
	// MaxPatternIterations is the hard ceiling for pattern matching
	// in the edit engine, guarding against catastrophic regexes.
	MaxPatternIterations int `json:"max_pattern_iterations,omitempty"`
	// MaxSearchResults caps the number of entries a search returns.
	MaxSearchResults int `json:"max_search_results,omitempty"`
	// MinSmartResults is the threshold at which a multi-root smart
	// search stops scanning further roots.
	MinSmartResults int `json:"min_smart_results,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		CmdTimeoutSec:        120,
		MaxPatternIterations: 100000,
		MaxSearchResults:     200,
		MinSmartResults:      10,
	}
}

// CmdTimeout returns the command timeout as a duration.
func (c *Config) CmdTimeout() time.Duration {
	return time.Duration(c.CmdTimeoutSec) * time.Second
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return &Manager{configDir: filepath.Join(configDir, "magpie")}, nil
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk, fills unset fields with
// defaults and applies environment overrides.
func (m *Manager) Load() (*Config, error) {
	cfg := Defaults()

	path := m.GetConfigPath()
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config json: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(cfg)
	fillDefaults(cfg)
	return cfg, nil
}

// Save writes the configuration to disk with restricted permissions.
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := intFromEnv("MAGPIE_CMD_TIMEOUT_SEC"); ok {
		cfg.CmdTimeoutSec = v
	}
	if v, ok := intFromEnv("MAGPIE_MAX_PATTERN_ITERATIONS"); ok {
		cfg.MaxPatternIterations = v
	}
	if v, ok := intFromEnv("MAGPIE_MAX_SEARCH_RESULTS"); ok {
		cfg.MaxSearchResults = v
	}
	if v, ok := intFromEnv("MAGPIE_MIN_SMART_RESULTS"); ok {
		cfg.MinSmartResults = v
	}
}

func intFromEnv(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func fillDefaults(cfg *Config) {
	def := Defaults()
	if cfg.CmdTimeoutSec <= 0 {
		cfg.CmdTimeoutSec = def.CmdTimeoutSec
	}
	if cfg.MaxPatternIterations <= 0 {
		cfg.MaxPatternIterations = def.MaxPatternIterations
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = def.MaxSearchResults
	}
	if cfg.MinSmartResults <= 0 {
		cfg.MinSmartResults = def.MinSmartResults
	}
}
