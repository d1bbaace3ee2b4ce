// Package config loads boardgame-atlas settings from TOML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Config is the full configuration file.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	API        APIConfig        `toml:"api"`
	Search     SearchConfig     `toml:"search"`
	Cache      CacheConfig      `toml:"cache"`
	Thumbnails ThumbnailsConfig `toml:"thumbnails"`
}

// GeneralConfig holds logging settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// APIConfig describes the catalog endpoint.
type APIConfig struct {
	BaseURL    string   `toml:"base_url"`
	ClientID   string   `toml:"client_id"`
	Timeout    Duration `toml:"timeout"`
	MaxRetries int      `toml:"max_retries"`
}

// SearchConfig is the query run when the list appears.
type SearchConfig struct {
	Name      string `toml:"name"`
	OrderBy   string `toml:"order_by"`
	Ascending bool   `toml:"ascending"`
	Limit     int    `toml:"limit"`
}

// CacheConfig controls the on-disk response cache.
type CacheConfig struct {
	Enabled   bool     `toml:"enabled"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	MaxSizeMB int      `toml:"max_size_mb"`
}

// ThumbnailsConfig controls the detail pane image.
type ThumbnailsConfig struct {
	Enabled  bool   `toml:"enabled"`
	Protocol string `toml:"protocol"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
}

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validProtocols = []string{"auto", "halfblocks", "kitty", "iterm2", "sixel", "none"}
)

// Validate reports every problem found in cfg, joined.
func (c *Config) Validate() error {
	var errs []error

	if !contains(validLogLevels, strings.ToLower(c.General.LogLevel)) {
		errs = append(errs, fmt.Errorf("general.log_level: unknown level %q", c.General.LogLevel))
	}
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url: must not be empty"))
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url: %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("api.max_retries: %d is negative", c.API.MaxRetries))
	}
	if c.Search.Limit <= 0 {
		errs = append(errs, fmt.Errorf("search.limit: %d must be positive", c.Search.Limit))
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir: required when the cache is enabled"))
	}
	if c.Cache.MaxSizeMB < 0 {
		errs = append(errs, fmt.Errorf("cache.max_size_mb: %d is negative", c.Cache.MaxSizeMB))
	}
	if !contains(validProtocols, strings.ToLower(c.Thumbnails.Protocol)) {
		errs = append(errs, fmt.Errorf("thumbnails.protocol: unknown protocol %q", c.Thumbnails.Protocol))
	}
	if c.Thumbnails.Width <= 0 || c.Thumbnails.Height <= 0 {
		errs = append(errs, fmt.Errorf("thumbnails: size %dx%d must be positive", c.Thumbnails.Width, c.Thumbnails.Height))
	}

	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
