// Package metadata implements image.Repository on the supported key-value
// stores: DynamoDB, an embedded Badger database and PostgreSQL.
package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/image"
)

// hashKey is the table's partition key attribute.
const hashKey = "imageId"

// DynamoAPI is the subset of the DynamoDB client the repository uses.
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoRepository stores records as items keyed by imageId.
type DynamoRepository struct {
	client DynamoAPI
	table  string
}

// NewDynamoClient builds a DynamoDB client, pointing it at endpoint when set.
func NewDynamoClient(awsCfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// NewDynamoRepository creates a repository on table.
func NewDynamoRepository(client DynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

// EnsureTable creates the table with an on-demand billing mode when it is missing.
func EnsureTable(ctx context.Context, client *dynamodb.Client, table string, log *zap.Logger) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %q: %w", table, err)
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(hashKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %q: %w", table, err)
	}

	log.Info("created table", zap.String("table", table))
	return nil
}

func (r *DynamoRepository) key(imageID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		hashKey: &types.AttributeValueMemberS{Value: imageID},
	}
}

// Put writes rec, overwriting any item with the same imageId.
func (r *DynamoRepository) Put(ctx context.Context, rec *image.Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item %s: %w", rec.ImageID, err)
	}
	return nil
}

// Get fetches a record by imageId.
func (r *DynamoRepository) Get(ctx context.Context, imageID string) (*image.Record, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(imageID),
	})
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", imageID, err)
	}
	if len(out.Item) == 0 {
		return nil, image.ErrNotFound
	}

	rec := &image.Record{}
	if err := attributevalue.UnmarshalMap(out.Item, rec); err != nil {
		return nil, fmt.Errorf("unmarshal item %s: %w", imageID, err)
	}
	return rec, nil
}

// Delete removes the item for imageId.
func (r *DynamoRepository) Delete(ctx context.Context, imageID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(imageID),
	})
	if err != nil {
		return fmt.Errorf("delete item %s: %w", imageID, err)
	}
	return nil
}

// Scan reads the whole table, following pagination.
func (r *DynamoRepository) Scan(ctx context.Context) ([]image.Record, error) {
	var records []image.Record

	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.table)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		var batch []image.Record
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal scan page: %w", err)
		}
		records = append(records, batch...)
	}
	return records, nil
}
