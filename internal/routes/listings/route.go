package listings

import (
	"context"
	"math"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/catalog/internal/data"
	"philcali.me/catalog/internal/exceptions"
	"philcali.me/catalog/internal/pagination"
	"philcali.me/catalog/internal/routes"
	"philcali.me/catalog/internal/routes/util"
)

const (
	DEFAULT_PAGE  = 0
	DEFAULT_LIMIT = 50
)

type ListingService struct {
	data       data.ProductDataService
	collection string
}

func NewRoute(data data.ProductDataService, collection string) routes.Service {
	return &ListingService{
		data:       data,
		collection: collection,
	}
}

func (ls *ListingService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/shoesListing":     ls.ShoesListing,
		"GET:/storeListing":     ls.StoreListing,
		"GET:/storeListing/all": ls.StoreListingAll,
	}
}

// ShoesListing answers with the first page of the collection at the store's default size.
func (ls *ListingService) ShoesListing(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	results, err := ls.data.ListProducts(ctx, ls.collection, data.QueryParams{})
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if len(results.Items) == 0 {
		return util.SerializeResponseNotFound()
	}
	return util.SerializeResponseOK(NewListing, results.Items, nil)
}

func (ls *ListingService) StoreListing(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	page, err := util.QueryIntParam(event, "page", DEFAULT_PAGE, "Page parameter was not a number type.")
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	limit, err := util.QueryIntParam(event, "limit", DEFAULT_LIMIT, "Limit parameter was not a number type.")
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if limit < 1 || limit > data.MAX_PAGE_SIZE {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Limit must be between 1 and 100.")
	}
	if page < 0 {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Page must be a non-negative number.")
	}
	if page > math.MaxInt32/limit {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Page is out of range.")
	}
	results, err := ls.data.ListProducts(ctx, ls.collection, data.QueryParams{
		Skip:  page * limit,
		Limit: limit,
	})
	return util.SerializeResponseOK(NewListingPage(page), results, err)
}

// StoreListingAll follows the store's continuation until the collection is
// exhausted and answers with every item at once.
func (ls *ListingService) StoreListingAll(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	items, err := pagination.Accumulate(ctx, ls.collection, func(ctx context.Context, token []byte) (data.QueryResults[data.Item], error) {
		return ls.data.ListProducts(ctx, ls.collection, data.QueryParams{
			Limit:     data.MAX_PAGE_SIZE,
			NextToken: token,
		})
	})
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if len(items) == 0 {
		return util.SerializeResponseNotFound()
	}
	return util.SerializeResponseOK(NewListing, items, nil)
}
