package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/cache"
)

const (
	maxImageBytes   = 5 << 20
	defaultMemoryMB = 8
	storePrefix     = "thumb:"
)

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	Renderer *Renderer

	// Width and Height are the thumbnail size in cells.
	Width  int
	Height int

	// Store keeps downloaded image bytes between runs. Optional.
	Store *cache.Store

	HTTPClient *http.Client
	UserAgent  string
	MemoryMB   int
	Logger     *slog.Logger
}

// Loader fetches, decodes and renders thumbnails by URL. Rendered art is
// kept in memory, raw bytes in the optional on-disk store, and concurrent
// loads of one URL share the work.
type Loader struct {
	cfg    LoaderConfig
	client *http.Client
	art    *artCache
	group  singleflight.Group
	logger *slog.Logger
}

// NewLoader builds a Loader. Renderer is required.
func NewLoader(cfg LoaderConfig) (*Loader, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("thumbnail: renderer is required")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("thumbnail: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	mem := cfg.MemoryMB
	if mem <= 0 {
		mem = defaultMemoryMB
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		cfg:    cfg,
		client: client,
		art:    newArtCache(mem << 20),
		logger: logger,
	}, nil
}

// Load returns the rendered thumbnail for url.
func (l *Loader) Load(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", errors.New("thumbnail: empty url")
	}
	if art, ok := l.art.get(url); ok {
		return art, nil
	}

	v, err, _ := l.group.Do(url, func() (interface{}, error) {
		data, err := l.bytes(ctx, url)
		if err != nil {
			return nil, err
		}
		img, err := Decode(data)
		if err != nil {
			return nil, err
		}
		art, err := l.cfg.Renderer.Render(img, l.cfg.Width, l.cfg.Height)
		if err != nil {
			return nil, err
		}
		l.art.put(url, art)
		return art, nil
	})
	if err != nil {
		l.logger.Debug("thumbnail failed", "url", url, "error", err)
		return "", err
	}
	return v.(string), nil
}

func (l *Loader) bytes(ctx context.Context, url string) ([]byte, error) {
	key := storePrefix + url
	if l.cfg.Store != nil {
		if data, ok := l.cfg.Store.Get(key); ok {
			return data, nil
		}
	}

	data, err := l.download(ctx, url)
	if err != nil {
		return nil, err
	}

	if l.cfg.Store != nil {
		if err := l.cfg.Store.Put(key, data); err != nil {
			l.logger.Warn("thumbnail cache write failed", "url", url, "error", err)
		}
	}
	return data, nil
}

func (l *Loader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("thumbnail: build request: %w", err)
	}
	if l.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", l.cfg.UserAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("thumbnail: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thumbnail: get %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("thumbnail: read %s: %w", url, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("thumbnail: %s larger than %d bytes", url, maxImageBytes)
	}
	return data, nil
}
