// Package config loads and validates the gitmon configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the startup configuration. A missing, unparseable or invalid
// file is fatal: no meaningful partial progress is possible without it.
type Config struct {
	Repos        []string `mapstructure:"repos" validate:"required,min=1,dive,required"`
	From         string   `mapstructure:"from" validate:"required,email"`
	To           string   `mapstructure:"to" validate:"required,email"`
	Token        string   `mapstructure:"token" validate:"required"`
	TemplatePath string   `mapstructure:"template_path"`
	CacheDir     string   `mapstructure:"cache_dir"`
	MaxCommits   int      `mapstructure:"max_commits" validate:"gte=0"`
	Branch       string   `mapstructure:"branch"`
	GitUsername  string   `mapstructure:"git_username"`
	GitToken     string   `mapstructure:"git_token"`
	SMTPHost     string   `mapstructure:"smtp_host" validate:"required"`
	SMTPPort     int      `mapstructure:"smtp_port" validate:"gt=0,lte=65535"`
	Subject      string   `mapstructure:"subject" validate:"required"`
}

// Load reads the configuration from path, or from the default location when
// path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("smtp_host", "smtp.gmail.com")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("subject", "Git Commit Notification")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config at %s: %w", path, err)
	}

	return &cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/gitmon/config.yaml, falling back to
// ~/.config/gitmon/config.yaml.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "gitmon", "config.yaml"), nil
}

// ResolveCacheRoot returns the directory that holds the mirrors and the
// watermark file: the configured cache_dir (with a leading ~ expanded) or
// the platform cache directory plus a gitmon subfolder.
func (c *Config) ResolveCacheRoot() (string, error) {
	if c.CacheDir != "" {
		return expandHome(c.CacheDir)
	}

	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("could not determine cache directory: %w", err)
	}
	return filepath.Join(base, "gitmon"), nil
}

// GitAuth returns the optional mirror credentials, nil when unset.
func (c *Config) GitAuth() (username, token string, ok bool) {
	if c.GitUsername == "" || c.GitToken == "" {
		return "", "", false
	}
	return c.GitUsername, c.GitToken, true
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
