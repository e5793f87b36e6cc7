package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	UI       UIConfig       `yaml:"ui" mapstructure:"ui"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

type StoreConfig struct {
	Driver         string        `yaml:"driver" mapstructure:"driver"`
	URI            string        `yaml:"uri" mapstructure:"uri"`
	Database       string        `yaml:"database" mapstructure:"database"`
	ConnectRetries int           `yaml:"connect_retries" mapstructure:"connect_retries"`
	OpTimeout      time.Duration `yaml:"op_timeout" mapstructure:"op_timeout"`
}

type RegistryConfig struct {
	// UniqueIDs rejects a developer whose id is already registered.
	UniqueIDs bool `yaml:"unique_ids" mapstructure:"unique_ids"`
}

type UIConfig struct {
	Mode  string `yaml:"mode" mapstructure:"mode"` // "prompt" or "picker"
	Color bool   `yaml:"color" mapstructure:"color"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "console" or "json"
	File   string `yaml:"file" mapstructure:"file"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:         "mongo",
			URI:            "mongodb://localhost:27017",
			Database:       "feedbackLoopDB",
			ConnectRetries: 3,
			OpTimeout:      10 * time.Second,
		},
		UI: UIConfig{
			Mode:  "prompt",
			Color: true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Dir returns the per-user configuration directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "feedbackloop")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "feedbackloop")
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("store.driver", cfg.Store.Driver)
	v.SetDefault("store.uri", cfg.Store.URI)
	v.SetDefault("store.database", cfg.Store.Database)
	v.SetDefault("store.connect_retries", cfg.Store.ConnectRetries)
	v.SetDefault("store.op_timeout", cfg.Store.OpTimeout)
	v.SetDefault("registry.unique_ids", cfg.Registry.UniqueIDs)
	v.SetDefault("ui.mode", cfg.UI.Mode)
	v.SetDefault("ui.color", cfg.UI.Color)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
}

// Load reads config.yaml from path, or from the search path when path is
// empty, then applies FEEDBACKLOOP_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	// Environment variables
	v.SetEnvPrefix("FEEDBACKLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("config: %w", err)
		}
		// Config file not found; use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.Store.URI = expandEnv(cfg.Store.URI)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors and fills in defaults for
// out-of-range numbers.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "mongo":
		if c.Store.URI == "" {
			return fmt.Errorf("config: store.uri is required for the mongo driver")
		}
		if !strings.HasPrefix(c.Store.URI, "mongodb://") && !strings.HasPrefix(c.Store.URI, "mongodb+srv://") {
			return fmt.Errorf("config: store.uri %q must start with mongodb:// or mongodb+srv://", c.Store.URI)
		}
		if c.Store.Database == "" {
			return fmt.Errorf("config: store.database is required")
		}
	default:
		return fmt.Errorf("config: store.driver %q is invalid (must be mongo or memory)", c.Store.Driver)
	}

	if c.UI.Mode != "prompt" && c.UI.Mode != "picker" {
		return fmt.Errorf("config: ui.mode %q is invalid (must be prompt or picker)", c.UI.Mode)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level %q is invalid", c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("config: log.format %q is invalid (must be console or json)", c.Log.Format)
	}

	if c.Store.ConnectRetries < 0 {
		c.Store.ConnectRetries = 0
	}
	if c.Store.OpTimeout <= 0 {
		c.Store.OpTimeout = 10 * time.Second
	}
	return nil
}
