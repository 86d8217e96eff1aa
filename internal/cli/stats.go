package cli

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/contrib-tracker/internal/contrib"
	"github.com/pfrederiksen/contrib-tracker/internal/server"
)

// fetchAll summarizes every user with at most limit requests in flight.
// Results keep argument order; failures come back as sentinel Stats.
func fetchAll(ctx context.Context, fetcher server.StatsFetcher, usernames []string, limit int) []contrib.Stats {
	results := make([]contrib.Stats, len(usernames))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, username := range usernames {
		eg.Go(func() error {
			stats, err := fetcher.Stats(egCtx, username)
			results[i] = server.Settle(username, stats, err)
			return nil
		})
	}

	_ = eg.Wait()
	return results
}
