package metadata

import (
	"context"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radif/imagemeta/internal/image"
)

// fakeDynamo keeps items in a map and pages scans pageSize items at a time.
type fakeDynamo struct {
	items    map[string]map[string]types.AttributeValue
	pageSize int
	scans    int
}

func newFakeDynamo(pageSize int) *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}, pageSize: pageSize}
}

func idOf(key map[string]types.AttributeValue) string {
	return key[hashKey].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.items[idOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[idOf(in.Key)]}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(f.items, idOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans++
	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := idOf(in.ExclusiveStartKey)
		start = sort.SearchStrings(ids, after) + 1
	}
	end := start + f.pageSize
	if end > len(ids) {
		end = len(ids)
	}

	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:end] {
		out.Items = append(out.Items, f.items[id])
	}
	if end < len(ids) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			hashKey: &types.AttributeValueMemberS{Value: ids[end-1]},
		}
	}
	return out, nil
}

func TestDynamoPutGetDelete(t *testing.T) {
	fake := newFakeDynamo(10)
	repo := NewDynamoRepository(fake, "images_metadata")
	ctx := context.Background()

	rec := &image.Record{
		ImageID:   "id1",
		UserID:    "u1",
		Tags:      []string{"test", "demo"},
		CreatedAt: "2026-10-19T12:00:00.000000Z",
		S3Key:     "u1/id1.jpg",
	}
	require.NoError(t, repo.Put(ctx, rec))

	item := fake.items["id1"]
	require.NotNil(t, item)
	assert.Equal(t, "u1", item["userId"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "u1/id1.jpg", item["s3Key"].(*types.AttributeValueMemberS).Value)

	got, err := repo.Get(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	require.NoError(t, repo.Delete(ctx, "id1"))
	_, err = repo.Get(ctx, "id1")
	assert.ErrorIs(t, err, image.ErrNotFound)
}

func TestDynamoScanFollowsPages(t *testing.T) {
	fake := newFakeDynamo(2)
	repo := NewDynamoRepository(fake, "images_metadata")
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, repo.Put(ctx, &image.Record{ImageID: id, UserID: "u1", Tags: []string{}}))
	}

	all, err := repo.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, 3, fake.scans)
}
