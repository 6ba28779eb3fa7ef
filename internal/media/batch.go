package media

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ParseIdentifiers splits a comma separated batch. Blank input is an empty
// batch; a blank entry inside a batch is kept so resolving it fails.
func ParseIdentifiers(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	ids := strings.Split(input, ",")
	for i, id := range ids {
		ids[i] = strings.TrimSpace(id)
	}
	return ids
}

// ResolveAll resolves every identifier concurrently. Results keep input
// order; the first failure cancels the rest and fails the batch.
func ResolveAll(ctx context.Context, resolver Resolver, ids []string) ([]string, error) {
	urls := make([]string, len(ids))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			if id == "" {
				return Unsupported(id)
			}
			image, err := resolver.Resolve(groupCtx, id)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Int("position", i).Msg("Failed to resolve media identifier")
				return err
			}
			urls[i] = image.URL
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
