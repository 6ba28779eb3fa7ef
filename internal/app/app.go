// Package app wires the listings router to DynamoDB for the binaries that serve it.
package app

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"philcali.me/catalog/internal/config"
	"philcali.me/catalog/internal/data"
	"philcali.me/catalog/internal/dynamodb/products"
	"philcali.me/catalog/internal/dynamodb/token"
	"philcali.me/catalog/internal/routes"
	"philcali.me/catalog/internal/routes/listings"
)

func NewDynamoDBClient(ctx context.Context, cfg *config.Listings) (*dynamodb.Client, error) {
	var opts []func(*awsConfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsConfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.EndpointResolver = dynamodb.EndpointResolverFromURL(cfg.DynamoDBEndpoint)
		}
	}), nil
}

func NewProductService(cfg *config.Listings, client products.QueryAPI) data.ProductDataService {
	return products.NewProductService(cfg.TableName, client, token.NewGCM(cfg.TokenSecret))
}

func NewRouter(cfg *config.Listings, service data.ProductDataService) *routes.Router {
	return routes.NewRouter(listings.NewRoute(service, cfg.Collection)).WithPrefix(cfg.PathPrefix)
}

// Build loads AWS configuration and returns a router ready to serve.
func Build(ctx context.Context, cfg *config.Listings) (*routes.Router, error) {
	client, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRouter(cfg, NewProductService(cfg, client)), nil
}

