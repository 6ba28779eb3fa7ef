package products

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"philcali.me/catalog/internal/data"
	"philcali.me/catalog/internal/dynamodb/token"
	"philcali.me/catalog/internal/metrics"
)

// DynamoDB has no OFFSET; skipped items are walked in key-only batches of this size.
const SKIP_BATCH_SIZE = 1000

type QueryAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type ProductDynamoDBService struct {
	DynamoDB       QueryAPI
	TableName      string
	TokenMarshaler token.TokenMarshaler
}

func NewProductService(tableName string, client QueryAPI, marshaler token.TokenMarshaler) data.ProductDataService {
	return &ProductDynamoDBService{
		DynamoDB:       client,
		TableName:      tableName,
		TokenMarshaler: marshaler,
	}
}

func _keyCondition(collection string) expression.KeyConditionBuilder {
	return expression.Key("PK").Equal(expression.Value(collection))
}

func _toItem(raw data.Item) data.Item {
	if sk, ok := raw["SK"]; ok {
		if _, exists := raw[data.ITEM_ID_FIELD]; !exists {
			raw[data.ITEM_ID_FIELD] = sk
		}
	}
	delete(raw, "PK")
	delete(raw, "SK")
	return raw
}

// _skip walks past count items and returns the key to resume from. A nil
// key with exhausted set means the collection ended inside the skipped range.
func (ps *ProductDynamoDBService) _skip(ctx context.Context, collection string, count int) (startKey map[string]types.AttributeValue, exhausted bool, err error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(_keyCondition(collection)).
		WithProjection(expression.NamesList(expression.Name("PK"), expression.Name("SK"))).
		Build()
	if err != nil {
		return nil, false, err
	}
	remaining := count
	for remaining > 0 {
		batch := int32(remaining)
		if remaining > SKIP_BATCH_SIZE {
			batch = SKIP_BATCH_SIZE
		}
		output, err := ps.DynamoDB.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(ps.TableName),
			Limit:                     aws.Int32(batch),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		metrics.ObserveQuery(collection, err)
		if err != nil {
			return nil, false, err
		}
		remaining -= int(output.Count)
		startKey = output.LastEvaluatedKey
		if len(startKey) == 0 {
			return nil, true, nil
		}
	}
	return startKey, false, nil
}

// ListProducts returns one page of the collection. A continuation token
// takes precedence over Skip; Skip only positions the first page.
func (ps *ProductDynamoDBService) ListProducts(ctx context.Context, collection string, params data.QueryParams) (data.QueryResults[data.Item], error) {
	logger := zerolog.Ctx(ctx)
	startKey, err := ps.TokenMarshaler.Unmarshal(collection, params.NextToken)
	if err != nil {
		return data.QueryResults[data.Item]{}, err
	}
	if params.Skip > 0 && len(params.NextToken) == 0 {
		var exhausted bool
		startKey, exhausted, err = ps._skip(ctx, collection, params.Skip)
		if err != nil {
			return data.QueryResults[data.Item]{}, err
		}
		if exhausted {
			logger.Debug().Str("collection", collection).Int("skip", params.Skip).Msg("Skipped past the end of the collection")
			return data.QueryResults[data.Item]{Items: []data.Item{}}, nil
		}
	}
	expr, err := expression.NewBuilder().WithKeyCondition(_keyCondition(collection)).Build()
	if err != nil {
		return data.QueryResults[data.Item]{}, err
	}
	output, err := ps.DynamoDB.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(ps.TableName),
		Limit:                     params.GetLimit(),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
	})
	metrics.ObserveQuery(collection, err)
	if err != nil {
		return data.QueryResults[data.Item]{}, err
	}
	items := make([]data.Item, 0, len(output.Items))
	if err := attributevalue.UnmarshalListOfMaps(output.Items, &items); err != nil {
		return data.QueryResults[data.Item]{}, err
	}
	for i, item := range items {
		items[i] = _toItem(item)
	}
	nextToken, err := ps.TokenMarshaler.Marshal(collection, output.LastEvaluatedKey)
	if err != nil {
		return data.QueryResults[data.Item]{}, err
	}
	logger.Debug().
		Str("collection", collection).
		Int("items", len(items)).
		Bool("has_next", nextToken != nil).
		Msg("Queried products")
	return data.QueryResults[data.Item]{
		Items:     items,
		NextToken: nextToken,
	}, nil
}
