package catalog

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/singleflight"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/cache"
)

// CachedClient decorates a Searcher with the on-disk response cache.
// Concurrent searches for the same query share one upstream call. Failed
// searches are never cached.
type CachedClient struct {
	next    Searcher
	results *cache.Typed[SearchResult]
	group   singleflight.Group
	logger  *slog.Logger
}

// searchPrefix namespaces responses in a store shared with other users.
const searchPrefix = "search:"

var _ Searcher = (*CachedClient)(nil)

// NewCachedClient wraps next with store. A nil logger discards output.
func NewCachedClient(next Searcher, store *cache.Store, logger *slog.Logger) *CachedClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedClient{
		next:    next,
		results: cache.NewTyped[SearchResult](store, searchPrefix),
		logger:  logger,
	}
}

// Search serves a fresh cached response when one exists and otherwise asks
// the wrapped Searcher, storing its answer.
func (c *CachedClient) Search(ctx context.Context, q Query) (*SearchResult, error) {
	key := q.Key()

	if res, ok := c.results.Get(key); ok {
		c.logger.Debug("search served from cache", "query", key, "games", len(res.Games))
		return &res, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		res, err := c.next.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		if err := c.results.Put(key, *res); err != nil {
			c.logger.Warn("cache write failed", "query", key, "error", err)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("search shared in-flight call", "query", key)
	}

	// Shared results must not alias between callers.
	res := *v.(*SearchResult)
	res.Games = slices.Clone(res.Games)
	return &res, nil
}
