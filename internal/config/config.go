// Package config handles the XDG configuration directory, the optional
// config.yaml file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskdash"

	// ConfigFile is the optional settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// LogFile receives debug logs while the interactive dashboard owns the terminal.
	LogFile = "taskdash.log"

	// EnvPrefix prefixes environment overrides, e.g. TASKDASH_BASE_URL.
	EnvPrefix = "TASKDASH"

	// DefaultBaseURL is the public placeholder API the dashboard talks to.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"

	// DefaultPageSize is the number of server tasks per page.
	DefaultPageSize = 10
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// BaseURL is the root of the remote task API.
	BaseURL string

	// PageSize is the number of server tasks requested per page.
	PageSize int

	// Token is an optional bearer token sent with every request.
	Token string

	// RequestTimeout bounds each remote call. Zero means no timeout.
	RequestTimeout time.Duration

	// Log is the logger built by the dispatcher for this run. May be nil.
	Log *slog.Logger
}

// New creates a new Config with the default or specified config directory
// and built-in defaults for every setting.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdash or $HOME/.config/taskdash.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:      dir,
		BaseURL:  DefaultBaseURL,
		PageSize: DefaultPageSize,
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the optional config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path of the dashboard debug log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasConfigFile checks if config.yaml exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.ConfigPath())
	return err == nil
}

// Load merges config.yaml (if present) and TASKDASH_* environment variables
// over the current values. Flags are applied by the caller afterwards.
func (c *Config) Load() error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("base_url", c.BaseURL)
	v.SetDefault("page_size", c.PageSize)
	v.SetDefault("token", c.Token)
	v.SetDefault("request_timeout", c.RequestTimeout)

	if c.HasConfigFile() {
		v.SetConfigFile(c.ConfigPath())
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	c.BaseURL = v.GetString("base_url")
	c.PageSize = v.GetInt("page_size")
	c.Token = v.GetString("token")
	c.RequestTimeout = v.GetDuration("request_timeout")

	return c.Validate()
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("invalid page size: %d", c.PageSize)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid request timeout: %s", c.RequestTimeout)
	}
	return nil
}

// NewLogger returns a text logger writing to w.
// Debug records are only emitted when Debug is set.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenLog opens the dashboard log file for appending.
// Without Debug it returns io.Discard so nothing touches the terminal.
func (c *Config) OpenLog() (io.WriteCloser, error) {
	if !c.Debug {
		return nopCloser{io.Discard}, nil
	}
	if err := c.EnsureDir(); err != nil {
		return nil, err
	}
	return os.OpenFile(c.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
