package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benchscan/benchscan/internal/constants"
	"github.com/benchscan/benchscan/internal/duration"
)

// Config represents the application configuration
type Config struct {
	Username      string   `yaml:"username,omitempty" json:"username,omitempty"`
	DefaultFormat string   `yaml:"default_format,omitempty" json:"default_format,omitempty"`
	Output        string   `yaml:"output,omitempty" json:"output,omitempty"`
	Datasets      []string `yaml:"datasets,omitempty" json:"datasets,omitempty"`

	// Top-level config sections
	Cache  *CacheOverrides  `yaml:"cache,omitempty" json:"cache,omitempty"`
	GitHub *GitHubOverrides `yaml:"github,omitempty" json:"github,omitempty"`
}

// CacheOverrides allows customizing the GitHub response cache
type CacheOverrides struct {
	Enabled *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty"`
	Expiry  string `yaml:"expiry,omitempty" json:"expiry,omitempty"` // duration, e.g. "7d"
}

// GitHubOverrides allows customizing API behavior
type GitHubOverrides struct {
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"` // duration, e.g. "10s"
	Retries *int   `yaml:"retries,omitempty" json:"retries,omitempty"`
}

// CacheEnabled returns whether the GitHub response cache is on.
// Caching defaults to enabled.
func (c *Config) CacheEnabled() bool {
	if c.Cache == nil || c.Cache.Enabled == nil {
		return true
	}
	return *c.Cache.Enabled
}

// CacheDir returns the configured cache directory, or empty for the
// platform default.
func (c *Config) CacheDir() string {
	if c.Cache == nil {
		return ""
	}
	return c.Cache.Dir
}

// CacheExpiry returns the configured cache expiry window.
func (c *Config) CacheExpiry() (time.Duration, error) {
	if c.Cache == nil || c.Cache.Expiry == "" {
		return constants.DefaultCacheExpiry, nil
	}
	d, err := duration.Parse(c.Cache.Expiry)
	if err != nil {
		return 0, fmt.Errorf("invalid cache expiry %q: %w", c.Cache.Expiry, err)
	}
	return d, nil
}

// RequestTimeout returns the configured per-request timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.GitHub == nil || c.GitHub.Timeout == "" {
		return constants.DefaultRequestTimeout, nil
	}
	d, err := duration.Parse(c.GitHub.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid github timeout %q: %w", c.GitHub.Timeout, err)
	}
	return d, nil
}

// Retries returns the configured retry ceiling.
func (c *Config) Retries() int {
	if c.GitHub == nil || c.GitHub.Retries == nil {
		return constants.DefaultRetries
	}
	return *c.GitHub.Retries
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".benchscan"
	}
	return filepath.Join(configDir, "benchscan")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".benchscan.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then
// merges any local .benchscan.yaml config on top (local values take
// precedence).
func Load() (*Config, error) {
	cfg := &Config{
		DefaultFormat: "table",
	}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}

		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}

		cfg = mergeConfig(cfg, &localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}

	return cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{}

	if local.Username != "" {
		result.Username = local.Username
	} else {
		result.Username = global.Username
	}

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	} else {
		result.DefaultFormat = global.DefaultFormat
	}

	if local.Output != "" {
		result.Output = local.Output
	} else {
		result.Output = global.Output
	}

	if len(local.Datasets) > 0 {
		result.Datasets = local.Datasets
	} else {
		result.Datasets = global.Datasets
	}

	result.Cache = mergeCacheOverrides(global.Cache, local.Cache)
	result.GitHub = mergeGitHubOverrides(global.GitHub, local.GitHub)

	return result
}

func mergeCacheOverrides(global, local *CacheOverrides) *CacheOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &CacheOverrides{}

	if global != nil {
		result.Enabled = global.Enabled
		result.Dir = global.Dir
		result.Expiry = global.Expiry
	}

	if local != nil {
		if local.Enabled != nil {
			result.Enabled = local.Enabled
		}
		if local.Dir != "" {
			result.Dir = local.Dir
		}
		if local.Expiry != "" {
			result.Expiry = local.Expiry
		}
	}

	return result
}

func mergeGitHubOverrides(global, local *GitHubOverrides) *GitHubOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &GitHubOverrides{}

	if global != nil {
		result.Timeout = global.Timeout
		result.Retries = global.Retries
	}

	if local != nil {
		if local.Timeout != "" {
			result.Timeout = local.Timeout
		}
		if local.Retries != nil {
			result.Retries = local.Retries
		}
	}

	return result
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configDir := DefaultConfigDir()

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment variable.
// Following 12-factor app best practices, tokens are only read from the environment.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# benchscan configuration file

# GitHub login to analyze
# username: your-login

# Output format: table, json, or summary
default_format: table

# Dataset files to analyze by default (optional)
# datasets:
#   - swe-bench.json
#   - swe-bench-verified.json

# GitHub response cache (optional)
# cache:
#   enabled: true
#   expiry: 7d

# API behavior (optional)
# github:
#   timeout: 10s
#   retries: 3
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
