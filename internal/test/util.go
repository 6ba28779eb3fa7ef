package test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	LOCAL_DDB_IMAGE = "amazon/dynamodb-local:2.5.2"
	LOCAL_DDB_PORT  = "8000/tcp"
	TABLE_NAME      = "CatalogData"
)

func CreateTable(client *dynamodb.Client) (string, error) {
	keySchema := []types.KeySchemaElement{
		{
			AttributeName: aws.String("PK"),
			KeyType:       types.KeyTypeHash,
		},
		{
			AttributeName: aws.String("SK"),
			KeyType:       types.KeyTypeRange,
		},
	}
	attributes := []types.AttributeDefinition{
		{
			AttributeName: aws.String("PK"),
			AttributeType: types.ScalarAttributeTypeS,
		},
		{
			AttributeName: aws.String("SK"),
			AttributeType: types.ScalarAttributeTypeS,
		},
	}
	output, err := client.CreateTable(context.TODO(), &dynamodb.CreateTableInput{
		TableName:            aws.String(TABLE_NAME),
		KeySchema:            keySchema,
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attributes,
	})
	if err != nil {
		return "", err
	}
	waiter := dynamodb.NewTableExistsWaiter(client, func(tewo *dynamodb.TableExistsWaiterOptions) {
		tewo.LogWaitAttempts = true
	})
	_, err = waiter.WaitForOutput(context.TODO(), &dynamodb.DescribeTableInput{
		TableName: output.TableDescription.TableName,
	}, time.Second*5)
	return *output.TableDescription.TableName, err
}

// SeedProducts writes count products into collection and returns their ids
// in sort key order, which is the order the store will page through them.
func SeedProducts(client *dynamodb.Client, tableName string, collection string, count int) ([]string, error) {
	ids := make([]string, count)
	for i := 0; i < count; i++ {
		gid, err := uuid.NewRandom()
		if err != nil {
			return nil, err
		}
		ids[i] = fmt.Sprintf("%05d-%s", i, gid.String())
		item, err := attributevalue.MarshalMap(map[string]interface{}{
			"PK":             collection,
			"SK":             ids[i],
			"name":           fmt.Sprintf("Product %d", i),
			"slug":           fmt.Sprintf("product-%d", i),
			"productPageUrl": fmt.Sprintf("/product-page/product-%d", i),
			"price":          float64(i) + 0.99,
			"inStock":        i%2 == 0,
		})
		if err != nil {
			return nil, err
		}
		if _, err := client.PutItem(context.TODO(), &dynamodb.PutItemInput{
			TableName: aws.String(tableName),
			Item:      item,
		}); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

type LocalDynamoServer struct {
	Container testcontainers.Container
	Endpoint  string
}

func (l *LocalDynamoServer) CreateLocalClient() (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRetryMaxAttempts(10),
		config.WithRegion("us-east-1"),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: l.Endpoint}, nil
			})),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     "fake",
				SecretAccessKey: "fake",
				SessionToken:    "fake",
			}}),
	)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func StartLocalServer(t *testing.T) *LocalDynamoServer {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        LOCAL_DDB_IMAGE,
			ExposedPorts: []string{LOCAL_DDB_PORT},
			Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory"},
			WaitingFor:   wait.ForListeningPort(LOCAL_DDB_PORT),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start local DDB container: %s", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate local DDB container: %s", err)
		}
	})
	endpoint, err := container.PortEndpoint(ctx, LOCAL_DDB_PORT, "http")
	if err != nil {
		t.Fatalf("Failed to resolve local DDB endpoint: %s", err)
	}
	return &LocalDynamoServer{Container: container, Endpoint: endpoint}
}
