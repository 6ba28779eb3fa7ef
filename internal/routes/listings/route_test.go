package listings_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/catalog/internal/data"
	"philcali.me/catalog/internal/routes"
	"philcali.me/catalog/internal/routes/listings"
)

// fakeProducts serves a flat, ordered collection. Continuation tokens are
// the decimal offset of the next item.
type fakeProducts struct {
	items  []data.Item
	failAt int
	err    error
	calls  []data.QueryParams
}

func newFakeProducts(count int) *fakeProducts {
	items := make([]data.Item, count)
	for i := range items {
		items[i] = data.Item{
			"_id":  fmt.Sprintf("product-%03d", i),
			"name": fmt.Sprintf("Shoe %d", i),
		}
	}
	return &fakeProducts{items: items}
}

func (fp *fakeProducts) ListProducts(ctx context.Context, collection string, params data.QueryParams) (data.QueryResults[data.Item], error) {
	fp.calls = append(fp.calls, params)
	if fp.failAt == len(fp.calls) {
		return data.QueryResults[data.Item]{}, fp.err
	}
	offset := params.Skip
	if len(params.NextToken) > 0 {
		offset, _ = strconv.Atoi(string(params.NextToken))
	}
	if offset > len(fp.items) {
		offset = len(fp.items)
	}
	end := offset + int(*params.GetLimit())
	if end > len(fp.items) {
		end = len(fp.items)
	}
	results := data.QueryResults[data.Item]{Items: fp.items[offset:end]}
	if end < len(fp.items) {
		results.NextToken = []byte(strconv.Itoa(end))
	}
	return results, nil
}

func newRouter(products data.ProductDataService) *routes.Router {
	return routes.NewRouter(listings.NewRoute(products, "Stores/Products"))
}

func get(router *routes.Router, path string, params map[string]string) events.APIGatewayV2HTTPResponse {
	event := events.APIGatewayV2HTTPRequest{
		RawPath:               path,
		QueryStringParameters: params,
	}
	event.RequestContext.HTTP.Method = "GET"
	event.RequestContext.HTTP.Path = path
	return router.Invoke(event, context.TODO())
}

func decode(t *testing.T, response events.APIGatewayV2HTTPResponse) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body), response.Body)
	return body
}

func TestShoesListing(t *testing.T) {
	t.Run("first page at the default size", func(t *testing.T) {
		products := newFakeProducts(80)

		response := get(newRouter(products), "/shoesListing", nil)

		require.Equal(t, 200, response.StatusCode, response.Body)
		assert.Equal(t, "application/json", response.Headers["Content-Type"])
		var listing listings.Listing
		require.NoError(t, json.Unmarshal([]byte(response.Body), &listing))
		assert.Len(t, listing.Items, data.DEFAULT_PAGE_SIZE)
		require.Len(t, products.calls, 1)
		assert.Equal(t, data.QueryParams{}, products.calls[0])
	})

	t.Run("empty collection is not found", func(t *testing.T) {
		response := get(newRouter(newFakeProducts(0)), "/shoesListing", nil)

		assert.Equal(t, 404, response.StatusCode)
		assert.Equal(t, "{}", response.Body)
		assert.Equal(t, "application/json", response.Headers["Content-Type"])
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		products := newFakeProducts(3)
		products.failAt = 1
		products.err = errors.New("ResourceNotFoundException: Requested resource not found")

		response := get(newRouter(products), "/shoesListing", nil)

		assert.Equal(t, 500, response.StatusCode)
		assert.JSONEq(t, `{"error": "ResourceNotFoundException: Requested resource not found"}`, response.Body)
		assert.Len(t, products.calls, 1)
	})
}

func TestStoreListing(t *testing.T) {
	t.Run("defaults to the first page of fifty", func(t *testing.T) {
		products := newFakeProducts(120)

		response := get(newRouter(products), "/storeListing", nil)

		require.Equal(t, 200, response.StatusCode, response.Body)
		var page listings.ListingPage
		require.NoError(t, json.Unmarshal([]byte(response.Body), &page))
		assert.Len(t, page.Items, 50)
		assert.True(t, page.HasNext)
		assert.Equal(t, 0, page.CurrentPage)
		require.Len(t, products.calls, 1)
		assert.Equal(t, 0, products.calls[0].Skip)
		assert.Equal(t, 50, products.calls[0].Limit)
	})

	t.Run("empty parameters take the defaults", func(t *testing.T) {
		products := newFakeProducts(10)

		response := get(newRouter(products), "/storeListing", map[string]string{"page": "", "limit": ""})

		require.Equal(t, 200, response.StatusCode, response.Body)
		assert.Equal(t, 50, products.calls[0].Limit)
	})

	t.Run("requests limit items at page times limit", func(t *testing.T) {
		for _, limit := range []int{1, 7, 50, 100} {
			for _, page := range []int{0, 1, 3} {
				t.Run(fmt.Sprintf("page=%d,limit=%d", page, limit), func(t *testing.T) {
					products := newFakeProducts(1000)

					response := get(newRouter(products), "/storeListing", map[string]string{
						"page":  strconv.Itoa(page),
						"limit": strconv.Itoa(limit),
					})

					require.Equal(t, 200, response.StatusCode, response.Body)
					require.Len(t, products.calls, 1)
					assert.Equal(t, limit, products.calls[0].Limit)
					assert.Equal(t, page*limit, products.calls[0].Skip)
					var listingPage listings.ListingPage
					require.NoError(t, json.Unmarshal([]byte(response.Body), &listingPage))
					assert.Equal(t, page, listingPage.CurrentPage)
					assert.Len(t, listingPage.Items, limit)
					assert.Equal(t, fmt.Sprintf("product-%03d", page*limit), listingPage.Items[0].Id())
				})
			}
		}
	})

	t.Run("hasNext is whatever the store reports", func(t *testing.T) {
		products := newFakeProducts(30)

		response := get(newRouter(products), "/storeListing", map[string]string{"page": "2", "limit": "10"})

		require.Equal(t, 200, response.StatusCode)
		body := decode(t, response)
		assert.Equal(t, "false", string(body["hasNext"]))
		assert.Equal(t, "2", string(body["currentPage"]))
	})

	t.Run("past the end is an empty page, not a 404", func(t *testing.T) {
		products := newFakeProducts(5)

		response := get(newRouter(products), "/storeListing", map[string]string{"page": "9", "limit": "10"})

		require.Equal(t, 200, response.StatusCode)
		assert.JSONEq(t, `{"items": [], "hasNext": false, "currentPage": 9}`, response.Body)
	})

	t.Run("limit out of range is rejected without querying", func(t *testing.T) {
		for _, limit := range []string{"0", "101", "-1", "1000"} {
			t.Run(limit, func(t *testing.T) {
				products := newFakeProducts(10)

				response := get(newRouter(products), "/storeListing", map[string]string{"limit": limit})

				assert.Equal(t, 400, response.StatusCode)
				assert.JSONEq(t, `{"error": "Limit must be between 1 and 100."}`, response.Body)
				assert.Empty(t, products.calls)
			})
		}
	})

	t.Run("non numeric parameters are rejected without querying", func(t *testing.T) {
		tests := []struct {
			params  map[string]string
			message string
		}{
			{map[string]string{"limit": "ten"}, "Limit parameter was not a number type."},
			{map[string]string{"limit": "2.5"}, "Limit parameter was not a number type."},
			{map[string]string{"page": "first"}, "Page parameter was not a number type."},
			{map[string]string{"page": "1e3", "limit": "10"}, "Page parameter was not a number type."},
		}
		for _, tt := range tests {
			products := newFakeProducts(10)

			response := get(newRouter(products), "/storeListing", tt.params)

			assert.Equal(t, 400, response.StatusCode, tt.params)
			assert.JSONEq(t, fmt.Sprintf(`{"error": %q}`, tt.message), response.Body)
			assert.Empty(t, products.calls)
		}
	})

	t.Run("negative page is rejected", func(t *testing.T) {
		products := newFakeProducts(10)

		response := get(newRouter(products), "/storeListing", map[string]string{"page": "-1"})

		assert.Equal(t, 400, response.StatusCode)
		assert.JSONEq(t, `{"error": "Page must be a non-negative number."}`, response.Body)
		assert.Empty(t, products.calls)
	})

	t.Run("offset that overflows is rejected", func(t *testing.T) {
		products := newFakeProducts(10)

		response := get(newRouter(products), "/storeListing", map[string]string{"page": "100000000", "limit": "100"})

		assert.Equal(t, 400, response.StatusCode)
		assert.JSONEq(t, `{"error": "Page is out of range."}`, response.Body)
		assert.Empty(t, products.calls)
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		products := newFakeProducts(10)
		products.failAt = 1
		products.err = errors.New("operation error DynamoDB: Query, timeout")

		response := get(newRouter(products), "/storeListing", map[string]string{"page": "1", "limit": "5"})

		assert.Equal(t, 500, response.StatusCode)
		assert.JSONEq(t, `{"error": "operation error DynamoDB: Query, timeout"}`, response.Body)
	})
}

func TestStoreListingAll(t *testing.T) {
	t.Run("accumulates every page in order", func(t *testing.T) {
		products := newFakeProducts(237)

		response := get(newRouter(products), "/storeListing/all", nil)

		require.Equal(t, 200, response.StatusCode)
		var listing listings.Listing
		require.NoError(t, json.Unmarshal([]byte(response.Body), &listing))
		require.Len(t, listing.Items, 237)
		for i, item := range listing.Items {
			require.Equal(t, fmt.Sprintf("product-%03d", i), item.Id())
		}
		require.Len(t, products.calls, 3)
		for _, call := range products.calls {
			assert.Equal(t, data.MAX_PAGE_SIZE, call.Limit)
			assert.Zero(t, call.Skip, "pages follow the continuation, never an offset")
		}
		assert.Nil(t, products.calls[0].NextToken)
		assert.Equal(t, []byte("100"), products.calls[1].NextToken)
		assert.Equal(t, []byte("200"), products.calls[2].NextToken)
	})

	t.Run("empty collection is not found", func(t *testing.T) {
		products := newFakeProducts(0)

		response := get(newRouter(products), "/storeListing/all", nil)

		assert.Equal(t, 404, response.StatusCode)
		assert.Equal(t, "{}", response.Body)
		assert.Len(t, products.calls, 1)
	})

	t.Run("failure on a later page exposes nothing", func(t *testing.T) {
		products := newFakeProducts(237)
		products.failAt = 2
		products.err = errors.New("InternalServerError: try again")

		response := get(newRouter(products), "/storeListing/all", nil)

		assert.Equal(t, 500, response.StatusCode)
		body := decode(t, response)
		assert.NotContains(t, body, "items")
		assert.JSONEq(t, `"InternalServerError: try again"`, string(body["error"]))
		assert.Len(t, products.calls, 2)
	})
}
