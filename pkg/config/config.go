/*
Package config manages the TOML config for cppcomplete.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/cppcomplete/internal/utils"
	"github.com/bastiangx/cppcomplete/pkg/engine"
	"github.com/charmbracelet/log"
)

// AppName is the directory name used under the user config dir.
const AppName = "cppcomplete"

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	Tables TablesConfig `toml:"tables"`
	CLI    CliConfig    `toml:"cli"`
	Watch  WatchConfig  `toml:"watch"`
}

// EngineConfig holds ranking and insertion options.
type EngineConfig struct {
	MaxResults     int  `toml:"max_results"`
	CustomPriority int  `toml:"custom_priority"`
	AutoTrigger    bool `toml:"auto_trigger"`
	TrailingSpace  bool `toml:"trailing_space"`
	CacheSize      int  `toml:"cache_size"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxBufferBytes int `toml:"max_buffer_bytes"`
}

// TablesConfig points at an optional TOML file merged over the builtin tables.
type TablesConfig struct {
	ExtraFile string `toml:"extra_file"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowContext bool `toml:"show_context"`
	Limit       int  `toml:"limit"`
}

// WatchConfig holds file watcher options.
type WatchConfig struct {
	DebounceMs int `toml:"debounce_ms"`
}

// GetConfigDir returns the first writable directory among the platform
// config dir, ~/.config/cppcomplete and the executable's directory.
func GetConfigDir() (string, error) {
	dir, err := utils.ResolveConfigDir(AppName)
	if err != nil {
		log.Errorf("Failed to resolve config directory: %v", err)
		return "", err
	}
	return dir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/cppcomplete/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	opts := engine.DefaultOptions()
	return &Config{
		Engine: EngineConfig{
			MaxResults:     opts.MaxResults,
			CustomPriority: opts.CustomPriority,
			AutoTrigger:    opts.AutoTrigger,
			TrailingSpace:  opts.TrailingSpace,
			CacheSize:      opts.CacheSize,
		},
		Server: ServerConfig{
			MaxBufferBytes: 4 << 20,
		},
		Tables: TablesConfig{},
		CLI: CliConfig{
			ShowContext: true,
			Limit:       opts.MaxResults,
		},
		Watch: WatchConfig{
			DebounceMs: 150,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Malformed files fall back to a
// section-by-section recovery.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.resolvePaths(filepath.Dir(configPath))
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(raw, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		if val, ok := utils.ExtractInt(section, "max_buffer_bytes"); ok {
			config.Server.MaxBufferBytes = val
		}
	}
	if section, ok := utils.ExtractSection(raw, "tables"); ok {
		if val, ok := utils.ExtractString(section, "extra_file"); ok {
			config.Tables.ExtraFile = val
		}
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "show_context"); ok {
			config.CLI.ShowContext = val
		}
		if val, ok := utils.ExtractInt(section, "limit"); ok {
			config.CLI.Limit = val
		}
	}
	if section, ok := utils.ExtractSection(raw, "watch"); ok {
		if val, ok := utils.ExtractInt(section, "debounce_ms"); ok {
			config.Watch.DebounceMs = val
		}
	}
	config.resolvePaths(filepath.Dir(configPath))
	return config, nil
}

func extractEngineConfig(data map[string]any, e *EngineConfig) {
	if val, ok := utils.ExtractInt(data, "max_results"); ok {
		e.MaxResults = val
	}
	if val, ok := utils.ExtractInt(data, "custom_priority"); ok {
		e.CustomPriority = val
	}
	if val, ok := utils.ExtractBool(data, "auto_trigger"); ok {
		e.AutoTrigger = val
	}
	if val, ok := utils.ExtractBool(data, "trailing_space"); ok {
		e.TrailingSpace = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		e.CacheSize = val
	}
}

// resolvePaths anchors a relative extra tables file at the config's directory.
func (c *Config) resolvePaths(baseDir string) {
	c.Tables.ExtraFile = utils.ResolveRelativePath(baseDir, c.Tables.ExtraFile)
}

// EngineOptions converts the [engine] section, replacing non-positive
// numbers with defaults.
func (c *Config) EngineOptions() engine.Options {
	def := engine.DefaultOptions()
	opts := engine.Options{
		MaxResults:     c.Engine.MaxResults,
		CustomPriority: c.Engine.CustomPriority,
		AutoTrigger:    c.Engine.AutoTrigger,
		TrailingSpace:  c.Engine.TrailingSpace,
		CacheSize:      c.Engine.CacheSize,
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = def.MaxResults
	}
	if opts.CustomPriority <= 0 {
		opts.CustomPriority = def.CustomPriority
	}
	if opts.CacheSize < 0 {
		opts.CacheSize = def.CacheSize
	}
	return opts
}

// Debounce returns the watcher debounce as a duration.
func (c *Config) Debounce() time.Duration {
	if c.Watch.DebounceMs <= 0 {
		return 0
	}
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// RebuildConfigFile overwrites the default config.toml with the defaults
// and returns its path.
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	log.Warnf("Rebuilding config file at %s", defaultPath)
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.AbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes engine values and saves to file. Nil arguments are left as is.
func (c *Config) Update(configPath string, maxResults, customPriority *int, autoTrigger *bool) error {
	if maxResults != nil {
		c.Engine.MaxResults = *maxResults
	}
	if customPriority != nil {
		c.Engine.CustomPriority = *customPriority
	}
	if autoTrigger != nil {
		c.Engine.AutoTrigger = *autoTrigger
	}
	return SaveConfig(c, configPath)
}
