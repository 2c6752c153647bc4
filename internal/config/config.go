// Package config handles zenview configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "15m" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration for zenview.
type Config struct {
	Zendesk ZendeskConfig `yaml:"zendesk"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Log     LogConfig     `yaml:"log"`
}

// ZendeskConfig holds the account credentials. Password or APIToken may
// reference environment variables (e.g. "$ZENDESK_TOKEN").
type ZendeskConfig struct {
	Subdomain string `yaml:"subdomain"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	APIToken  string `yaml:"api_token"`
}

// ViewerConfig defines display and cache behavior.
type ViewerConfig struct {
	PageSize    int      `yaml:"page_size"`
	CacheDB     string   `yaml:"cache_db"`
	CacheMaxAge Duration `yaml:"cache_max_age"` // 0 = always refetch unless --offline
}

// LogConfig defines logging output.
type LogConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	SentryDSN string `yaml:"sentry_dsn"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Viewer: ViewerConfig{
			PageSize:    25,
			CacheDB:     filepath.Join(homeDir, ".local/share/zenview/zenview.db"),
			CacheMaxAge: Duration(15 * time.Minute),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(homeDir, ".local/share/zenview/zenview.log"),
		},
	}
}

// Load reads configuration from the default path, falling back to defaults
// when no file exists.
func Load() (*Config, error) {
	configPath := DefaultConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.expandEnvVars()
	return cfg, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if p := os.Getenv("ZENVIEW_CONFIG"); p != "" {
		return p
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config/zenview/config.yaml")
}

func (c *Config) expandEnvVars() {
	c.Zendesk.Password = os.ExpandEnv(c.Zendesk.Password)
	c.Zendesk.APIToken = os.ExpandEnv(c.Zendesk.APIToken)
	c.Log.SentryDSN = os.ExpandEnv(c.Log.SentryDSN)
}


