package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
)

const appName = "boardgame-atlas"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/boardgame-atlas/config.toml
//  2. ~/.config/boardgame-atlas/config.toml
//
// If no file exists, the defaults are used. Environment overrides apply in
// both cases.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing file
// yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := applyEnvOverrides(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader decodes TOML from r over the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	cacheDir := filepath.Join(xdgCacheHome(home), appName)

	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			LogFile:  filepath.Join(xdgStateHome(home), appName, appName+".log"),
		},
		API: APIConfig{
			BaseURL:    catalog.DefaultBaseURL,
			Timeout:    Duration{catalog.DefaultTimeout},
			MaxRetries: catalog.DefaultMaxRetries,
		},
		Search: SearchConfig{
			OrderBy: catalog.DefaultOrderBy,
			Limit:   catalog.DefaultLimit,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			TTL:       Duration{6 * time.Hour},
			MaxSizeMB: 20,
		},
		Thumbnails: ThumbnailsConfig{
			Enabled:  true,
			Protocol: "auto",
			Width:    24,
			Height:   12,
		},
	}
}

// Query returns the catalog query described by the search section.
func (c *Config) Query() catalog.Query {
	return catalog.Query{
		Name:      c.Search.Name,
		OrderBy:   c.Search.OrderBy,
		Ascending: c.Search.Ascending,
		Limit:     c.Search.Limit,
	}
}

// envOverrides are the variables that may replace file values. Unset
// variables leave the pointer nil.
type envOverrides struct {
	ClientID      *string `env:"BGA_CLIENT_ID"`
	BaseURL       *string `env:"BGA_BASE_URL"`
	OrderBy       *string `env:"BGA_ORDER_BY"`
	Limit         *int    `env:"BGA_LIMIT"`
	ThumbProtocol *string `env:"BGA_THUMB_PROTOCOL"`
	LogLevel      *string `env:"BGA_LOG_LEVEL"`
}

func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.ClientID != nil {
		cfg.API.ClientID = *o.ClientID
	}
	if o.BaseURL != nil {
		cfg.API.BaseURL = *o.BaseURL
	}
	if o.OrderBy != nil {
		cfg.Search.OrderBy = *o.OrderBy
	}
	if o.Limit != nil {
		cfg.Search.Limit = *o.Limit
	}
	if o.ThumbProtocol != nil {
		cfg.Thumbnails.Protocol = *o.ThumbProtocol
	}
	if o.LogLevel != nil {
		cfg.General.LogLevel = *o.LogLevel
	}
	return nil
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appName, "config.toml"))

	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
	}
	return paths
}

func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}

func xdgStateHome(home string) string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".local", "state")
}
