// Package pagination drains a cursor-paginated source into one in-memory
// result set.
//
// The source hands back one page at a time together with an opaque
// continuation token. Accumulate keeps asking for the next page with the
// token it was just given until the source reports that nothing is left:
//
//	items, err := pagination.Accumulate(ctx, "Stores/Products", func(ctx context.Context, token []byte) (data.QueryResults[data.Item], error) {
//		return products.ListProducts(ctx, "Stores/Products", data.QueryParams{Limit: 100, NextToken: token})
//	})
//
// Every item is buffered before Accumulate returns. Memory and latency grow
// with the size of the source and there is no upper bound; callers that
// serve real traffic from large collections should page instead.
//
// A failed page aborts the whole walk. Nothing fetched so far is returned
// and no page is retried.
package pagination
