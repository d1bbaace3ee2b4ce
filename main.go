// boardgame-atlas browses the Board Game Atlas catalog from the terminal.
//
// It loads one page of games when the list appears and shows them in an
// interactive TUI with a detail pane and cover art, or prints them as a
// table, JSON or YAML when stdout is not a terminal.
//
// Usage:
//
//	boardgame-atlas [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: ~/.config/boardgame-atlas/config.toml)
//	-list             Print the games instead of launching the TUI
//	-format string    List output format: table, json or yaml (default: table)
//	-query string     Search games by name
//	-limit int        Number of games to load (0 = config value)
//	-use-mocks        Use built-in fixture data instead of the API
//	-mock-error       With -use-mocks, fail the search
//	-no-cache         Bypass the on-disk response cache
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/cache"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/config"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/gameslist"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/terminal"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/thumbnail"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

var errMockSearch = errors.New("mock: simulated search failure")

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		listMode    = flag.Bool("list", false, "Print the games instead of launching the TUI")
		format      = flag.String("format", "table", "List output format (table|json|yaml)")
		query       = flag.String("query", "", "Search games by name")
		limit       = flag.Int("limit", 0, "Number of games to load (0 = config value)")
		useMocks    = flag.Bool("use-mocks", false, "Use built-in fixture data instead of the API")
		mockError   = flag.Bool("mock-error", false, "Fail the search (with -use-mocks)")
		noCache     = flag.Bool("no-cache", false, "Bypass the on-disk response cache")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("boardgame-atlas %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if !validFormat(*format) {
		fmt.Fprintf(os.Stderr, "unknown format: %s (supported: table, json, yaml)\n", *format)
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *query != "" {
		cfg.Search.Name = *query
	}
	if *limit > 0 {
		cfg.Search.Limit = *limit
	}
	if *noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so it only logs to the file.
	interactive := !*listMode && isatty.IsTerminal(os.Stdout.Fd())
	logger, closeLog := setupLogger(cfg.General, *verbose, interactive)
	defer closeLog()

	if !interactive && !isatty.IsTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	var store *cache.Store
	if cfg.Cache.Enabled {
		store, err = cache.NewStore(cache.StoreConfig{
			Dir:        cfg.Cache.Dir,
			MaxSizeMB:  cfg.Cache.MaxSizeMB,
			DefaultTTL: cfg.Cache.TTL.Duration,
			Logger:     logger,
		})
		if err != nil {
			logger.Warn("cache disabled", "dir", cfg.Cache.Dir, "error", err)
			store = nil
		}
	}

	api := newSearcher(cfg, store, *useMocks, *mockError, logger)
	machine := gameslist.New(api,
		gameslist.WithQuery(cfg.Query()),
		gameslist.WithLogger(logger),
		gameslist.WithTeardown(func() {
			if store != nil {
				logger.Debug("cache stats", "stats", store.Stats())
			}
		}),
	)
	defer machine.Close()

	if !interactive {
		width := terminal.Width(os.Stdout, 100)
		if err := runList(ctx, machine, os.Stdout, *format, width); err != nil {
			logger.Error("list failed", "error", err)
			machine.Close()
			os.Exit(1)
		}
		return
	}

	opts := []tui.Option{
		tui.WithQuery(cfg.Query()),
		tui.WithLogger(logger),
	}
	if loader := newThumbnailLoader(cfg, store, logger); loader != nil {
		opts = append(opts, tui.WithThumbnails(loader))
	}

	model := tui.New(machine, opts...)
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		machine.Close()
		os.Exit(1)
	}
}

// loadConfig reads path, or the standard location when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

func validFormat(f string) bool {
	switch f {
	case "table", "json", "yaml":
		return true
	}
	return false
}

// setupLogger builds a text logger at the configured level. Interactive runs
// write only to the log file; list runs also write to stderr. The returned
// func closes the file.
func setupLogger(gc config.GeneralConfig, verbose, interactive bool) (*slog.Logger, func()) {
	level := parseLevel(gc.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}

	var writers []io.Writer
	if !interactive {
		writers = append(writers, os.Stderr)
	}

	closeFn := func() {}
	if gc.LogFile != "" {
		if err := ensureLogDir(gc.LogFile); err == nil {
			f, err := os.OpenFile(gc.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err == nil {
				writers = append(writers, f)
				closeFn = func() { f.Close() }
			}
		}
	}

	if len(writers) == 0 {
		return slog.New(slog.DiscardHandler), closeFn
	}
	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler), closeFn
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

func ensureLogDir(logFile string) error {
	return os.MkdirAll(filepath.Dir(logFile), 0755)
}

// newSearcher picks the catalog backend: fixtures with -use-mocks, otherwise
// the HTTP client, wrapped by the response cache when one is open.
func newSearcher(cfg *config.Config, store *cache.Store, useMocks, mockError bool, logger *slog.Logger) catalog.Searcher {
	if useMocks {
		var opts []catalog.MockOption
		if mockError {
			opts = append(opts, catalog.WithError(errMockSearch))
		}
		logger.Info("using mock catalog", "fail", mockError)
		return catalog.NewMockClient(opts...)
	}

	client := catalog.NewClient(catalog.ClientConfig{
		BaseURL:    cfg.API.BaseURL,
		ClientID:   cfg.API.ClientID,
		Timeout:    cfg.API.Timeout.Duration,
		MaxRetries: cfg.API.MaxRetries,
		UserAgent:  userAgent(),
		Logger:     logger,
	})
	if store == nil {
		return client
	}
	return catalog.NewCachedClient(client, store, logger)
}

// newThumbnailLoader returns nil when cover art is off or the terminal
// cannot show it.
func newThumbnailLoader(cfg *config.Config, store *cache.Store, logger *slog.Logger) *thumbnail.Loader {
	if !cfg.Thumbnails.Enabled {
		return nil
	}
	proto, err := terminal.Resolve(cfg.Thumbnails.Protocol)
	if err != nil {
		logger.Warn("thumbnails disabled", "error", err)
		return nil
	}
	if proto == terminal.ProtocolNone {
		return nil
	}

	cellW, cellH := terminal.CellSize()
	logger.Debug("thumbnail protocol", "protocol", proto.String(), "terminal", terminal.Detect().String(),
		"cell_w", cellW, "cell_h", cellH)

	loader, err := thumbnail.NewLoader(thumbnail.LoaderConfig{
		Renderer:  thumbnail.NewRenderer(proto, cellW, cellH),
		Width:     cfg.Thumbnails.Width,
		Height:    cfg.Thumbnails.Height,
		Store:     store,
		UserAgent: userAgent(),
		Logger:    logger,
	})
	if err != nil {
		logger.Warn("thumbnails disabled", "error", err)
		return nil
	}
	return loader
}

func userAgent() string {
	return "boardgame-atlas/" + version
}
