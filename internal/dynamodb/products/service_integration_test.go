//go:build integration

package products_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/catalog/internal/data"
	"philcali.me/catalog/internal/dynamodb/products"
	"philcali.me/catalog/internal/dynamodb/token"
	"philcali.me/catalog/internal/pagination"
	"philcali.me/catalog/internal/test"
)

func TestProductServiceIntegration(t *testing.T) {
	localServer := test.StartLocalServer(t)
	client, err := localServer.CreateLocalClient()
	if err != nil {
		t.Fatalf("Failed to create DDB client: %s", err)
	}
	tableName, err := test.CreateTable(client)
	if err != nil {
		t.Fatalf("Failed to create DDB table: %s", err)
	}
	ids, err := test.SeedProducts(client, tableName, "Stores/Products", 237)
	require.NoError(t, err)
	_, err = test.SeedProducts(client, tableName, "Stores/Collections", 3)
	require.NoError(t, err)
	t.Logf("Successfully created local resources running on %s", localServer.Endpoint)

	service := products.NewProductService(tableName, client, token.NewGCM("integration"))

	t.Run("AccumulateAll", func(t *testing.T) {
		items, err := pagination.Accumulate(context.TODO(), "Stores/Products", func(ctx context.Context, next []byte) (data.QueryResults[data.Item], error) {
			return service.ListProducts(ctx, "Stores/Products", data.QueryParams{Limit: data.MAX_PAGE_SIZE, NextToken: next})
		})
		require.NoError(t, err)
		require.Len(t, items, len(ids))
		for i, item := range items {
			assert.Equal(t, ids[i], item.Id())
		}
	})

	t.Run("SkipAndLimit", func(t *testing.T) {
		results, err := service.ListProducts(context.TODO(), "Stores/Products", data.QueryParams{Skip: 150, Limit: 50})
		require.NoError(t, err)
		require.Len(t, results.Items, 50)
		assert.Equal(t, ids[150], results.Items[0].Id())
		assert.True(t, results.HasNext())
	})

	t.Run("CollectionsAreIsolated", func(t *testing.T) {
		results, err := service.ListProducts(context.TODO(), "Stores/Collections", data.QueryParams{})
		require.NoError(t, err)
		assert.Len(t, results.Items, 3)
		assert.False(t, results.HasNext())
	})
}
