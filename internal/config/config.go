package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nickpending/pullfeed/internal/ptr"
)

const appName = "pullfeed"

// Config represents the configuration from config.toml
type Config struct {
	API     APIConfig     `toml:"api"`
	TUI     TUIConfig     `toml:"tui"`
	Pull    PullConfig    `toml:"pull"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

type APIConfig struct {
	URL string `toml:"url"`
	Key string `toml:"key"`
}

type TUIConfig struct {
	RefreshInterval int    `toml:"refresh_interval"` // Auto-refresh interval in seconds, 0 disables
	Theme           string `toml:"theme"`
	PageSize        int    `toml:"page_size"`
}

// PullConfig mirrors ptr.Options.
type PullConfig struct {
	Distance         float64 `toml:"distance"`
	RefreshOnRelease bool    `toml:"refresh_on_release"`
	MinimizeDelayMS  int     `toml:"minimize_delay_ms"`
	Minimize         bool    `toml:"minimize"`
	TouchSlop        int     `toml:"touch_slop"`
	HeaderLayout     string  `toml:"header_layout"`
	HeaderIn         string  `toml:"header_in"`
	HeaderOut        string  `toml:"header_out"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

const DefaultAPIURL = "http://localhost:8989"

// Default returns the configuration used when no file exists.
func Default() *Config {
	opts := ptr.DefaultOptions()
	return &Config{
		API: APIConfig{URL: DefaultAPIURL},
		TUI: TUIConfig{
			RefreshInterval: 0,
			Theme:           "cyan",
			PageSize:        50,
		},
		Pull: PullConfig{
			Distance:         opts.RefreshScrollDistance,
			RefreshOnRelease: opts.RefreshOnRelease,
			MinimizeDelayMS:  int(opts.MinimizeDelay / time.Millisecond),
			Minimize:         opts.Minimize,
			TouchSlop:        opts.TouchSlop,
			HeaderLayout:     opts.HeaderLayout,
			HeaderIn:         opts.HeaderIn,
			HeaderOut:        opts.HeaderOut,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Dir returns the pullfeed config directory under XDG_CONFIG_HOME.
func Dir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, appName), nil
}

// LoadConfig loads configuration from the standard XDG config path with sensible defaults
func LoadConfig() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom loads configuration from path. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); err == nil {
		configData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse TOML config, merging with defaults
		if err := toml.Unmarshal(configData, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values the TOML decoder cannot.
func (c *Config) Validate() error {
	if c.Pull.Distance <= 0 || c.Pull.Distance > 1 {
		return fmt.Errorf("invalid pull.distance %v: must be in (0, 1]", c.Pull.Distance)
	}
	if c.Pull.MinimizeDelayMS < 0 {
		return fmt.Errorf("invalid pull.minimize_delay_ms %d", c.Pull.MinimizeDelayMS)
	}
	if c.Pull.TouchSlop < 0 {
		return fmt.Errorf("invalid pull.touch_slop %d", c.Pull.TouchSlop)
	}
	if !ptr.ValidLayout(c.Pull.HeaderLayout) {
		return fmt.Errorf("invalid pull.header_layout %q", c.Pull.HeaderLayout)
	}
	if c.TUI.RefreshInterval < 0 {
		return fmt.Errorf("invalid tui.refresh_interval %d", c.TUI.RefreshInterval)
	}
	if c.TUI.PageSize <= 0 || c.TUI.PageSize > 200 {
		return fmt.Errorf("invalid tui.page_size %d: must be 1-200", c.TUI.PageSize)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// GetRefreshInterval returns the configured refresh interval in seconds
// Returns 0 if auto-refresh is disabled
func (c *Config) GetRefreshInterval() int {
	return c.TUI.RefreshInterval
}

// GetAPIURL returns the timeline server URL.
func (c *Config) GetAPIURL() string {
	if c.API.URL == "" {
		return DefaultAPIURL
	}
	return strings.TrimRight(c.API.URL, "/")
}

// PullOptions converts the [pull] section. The caller supplies the
// scheduler and, optionally, a presenter.
func (c *Config) PullOptions() ptr.Options {
	opts := ptr.DefaultOptions()
	opts.RefreshScrollDistance = c.Pull.Distance
	opts.RefreshOnRelease = c.Pull.RefreshOnRelease
	opts.MinimizeDelay = time.Duration(c.Pull.MinimizeDelayMS) * time.Millisecond
	opts.Minimize = c.Pull.Minimize
	opts.TouchSlop = c.Pull.TouchSlop
	opts.HeaderLayout = c.Pull.HeaderLayout
	opts.HeaderIn = c.Pull.HeaderIn
	opts.HeaderOut = c.Pull.HeaderOut
	return opts
}

// LogLevel parses [log].level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
