// Package config loads the runtime configuration of botstrap.
//
// Values come from, in increasing priority: built-in defaults, an optional
// botstrap.{yaml,json,toml} file in the work directory, BOTSTRAP_* environment
// variables and explicit overrides (CLI flags). The API token is read from
// API_TOKEN once per Load; a .env file in the work directory is loaded first
// and never overrides variables already set in the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "botstrap"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "botstrap"
	// EnvPrefix prefixes environment overrides (BOTSTRAP_LOG_LEVEL, ...).
	EnvPrefix = "BOTSTRAP"
	// TokenEnv holds the API token.
	TokenEnv = "API_TOKEN"
	// DotEnvFile is loaded from the work directory when present.
	DotEnvFile = ".env"
)

// Config is the resolved runtime configuration.
type Config struct {
	WorkDir    string `mapstructure:"work_dir"`
	SchemaFile string `mapstructure:"schema_file"`
	TokensFile string `mapstructure:"tokens_file"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	Strict     bool   `mapstructure:"strict"`
	APIToken   string `mapstructure:"api_token"`
	// Source is the config file that was read, if any.
	Source string `mapstructure:"-"`
}

// LoadOptions controls Load.
type LoadOptions struct {
	// WorkDir is where the config file and .env are searched.
	// Empty means the process working directory.
	WorkDir string
	// ConfigFile, when set, must exist and is used exclusively.
	ConfigFile string
	// Overrides are applied last, keyed like the mapstructure tags.
	Overrides map[string]any
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		WorkDir:    ".",
		SchemaFile: "schema.json",
		TokensFile: ".tokens.json",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load resolves the configuration.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	baseDir := opts.WorkDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work directory: %w", err)
	}

	if err := loadDotEnv(filepath.Join(baseDir, DotEnvFile)); err != nil {
		return nil, err
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("work_dir", baseDir)
	v.SetDefault("schema_file", defaults.SchemaFile)
	v.SetDefault("tokens_file", defaults.TokensFile)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("api_token", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_token", TokenEnv); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", TokenEnv, err)
	}

	source := ""
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", opts.ConfigFile, err)
		}
		source = opts.ConfigFile
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(baseDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else {
			source = v.ConfigFileUsed()
		}
	}

	for key, val := range opts.Overrides {
		v.Set(key, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Source = source

	if !filepath.IsAbs(cfg.WorkDir) {
		cfg.WorkDir = filepath.Join(baseDir, cfg.WorkDir)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	if c.SchemaFile == "" {
		return fmt.Errorf("schema_file cannot be empty")
	}
	return nil
}

// Level maps LogLevel to a slog level. charmbracelet/log levels share these values.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// HasToken reports whether an API token is configured.
func (c *Config) HasToken() bool {
	return c.APIToken != ""
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
