package gameslist

import (
	"context"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
)

// Feedback turns the State stream into an Event stream. It is the only place
// side effects happen. The returned channel must be closed once states is
// closed or ctx is done and no more events will be produced.
type Feedback func(ctx context.Context, states <-chan State) <-chan Event

// WhenLoading returns the feedback that searches the catalog. Every time the
// observed state enters Loading it calls api.Search once, in its own
// goroutine, and emits exactly one GamesLoaded or FailedToLoad. Staying in
// Loading does not trigger another call, and leaving Loading does not cancel
// the one in flight: the reducer ignores results that arrive late.
func WhenLoading(api catalog.Searcher, q catalog.Query, logger *slog.Logger) Feedback {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return func(ctx context.Context, states <-chan State) <-chan Event {
		out := make(chan Event)

		go func() {
			var wg sync.WaitGroup
			defer close(out)
			defer wg.Wait()

			loading := false
			for {
				var (
					s  State
					ok bool
				)
				select {
				case <-ctx.Done():
					return
				case s, ok = <-states:
					if !ok {
						return
					}
				}

				_, isLoading := s.(Loading)
				entered := isLoading && !loading
				loading = isLoading
				if !entered {
					continue
				}

				wg.Add(1)
				go func() {
					defer wg.Done()
					ev := search(ctx, api, q, logger)
					select {
					case out <- ev:
					case <-ctx.Done():
					}
				}()
			}
		}()

		return out
	}
}

// search runs one catalog call and converts its outcome into an event.
func search(ctx context.Context, api catalog.Searcher, q catalog.Query, logger *slog.Logger) Event {
	logger.Debug("searching catalog", "query", q.Key())

	res, err := api.Search(ctx, q)
	if err != nil {
		logger.Warn("catalog search failed", "error", err)
		return FailedToLoad{Cause: err}
	}

	games := RecordsFromResult(res)
	logger.Debug("catalog search returned", "games", len(games))
	return GamesLoaded{Games: games}
}
