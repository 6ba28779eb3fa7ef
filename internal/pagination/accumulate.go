package pagination

import (
	"context"

	"github.com/rs/zerolog"
	"philcali.me/catalog/internal/data"
	"philcali.me/catalog/internal/metrics"
)

// Fetch returns the page that follows token. A nil token asks for the first page.
type Fetch[T any] func(ctx context.Context, token []byte) (data.QueryResults[T], error)

// Accumulate concatenates every page produced by fetch, in the order the
// source returns them, stopping once a page reports no continuation.
func Accumulate[T any](ctx context.Context, source string, fetch Fetch[T]) ([]T, error) {
	logger := zerolog.Ctx(ctx).With().Str("source", source).Logger()
	var items []T
	var token []byte
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results, err := fetch(ctx, token)
		if err != nil {
			logger.Warn().
				Err(err).
				Int("page", page).
				Int("discarded", len(items)).
				Msg("Page fetch failed, abandoning accumulation")
			return nil, err
		}
		metrics.ObservePage(source)
		items = append(items, results.Items...)
		logger.Debug().
			Int("page", page).
			Int("page_items", len(results.Items)).
			Int("total_items", len(items)).
			Bool("has_next", results.HasNext()).
			Msg("Fetched page")
		if !results.HasNext() {
			logger.Info().
				Int("pages", page).
				Int("items", len(items)).
				Msg("Accumulation complete")
			metrics.ObserveAccumulated(source, len(items))
			return items, nil
		}
		token = results.NextToken
	}
}
