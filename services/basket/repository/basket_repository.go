package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/ovaldezb/aws-microservices/services/basket/models"
)

// BasketRepo is the keyed basket store: one record per userName, whole-record
// reads and writes only. No path mutates a basket in place.
type BasketRepo interface {
	Get(ctx context.Context, userName string) (*models.Basket, error)
	GetAll(ctx context.Context) ([]models.Basket, error)
	Save(ctx context.Context, basket *models.Basket) error
	Delete(ctx context.Context, userName string) error
}

// DynamoBasketRepository stores baskets in a DynamoDB table with partition
// key `userName`.
type DynamoBasketRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoBasketRepository(client *dynamodb.Client, table string) *DynamoBasketRepository {
	return &DynamoBasketRepository{client: client, table: table}
}

// Get returns the basket for userName, or (nil, nil) when none exists.
func (r *DynamoBasketRepository) Get(ctx context.Context, userName string) (*models.Basket, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"userName": userName})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &r.table, Key: key})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var basket models.Basket
	if err := attributevalue.UnmarshalMap(out.Item, &basket); err != nil {
		return nil, fmt.Errorf("unmarshal basket: %w", err)
	}
	return &basket, nil
}

func (r *DynamoBasketRepository) GetAll(ctx context.Context) ([]models.Basket, error) {
	var baskets []models.Basket
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: &r.table})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		var batch []models.Basket
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal baskets: %w", err)
		}
		baskets = append(baskets, batch...)
	}
	return baskets, nil
}

// Save writes the basket whole, overwriting any existing record for the user.
func (r *DynamoBasketRepository) Save(ctx context.Context, basket *models.Basket) error {
	item, err := attributevalue.MarshalMap(basket)
	if err != nil {
		return fmt.Errorf("marshal basket: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (r *DynamoBasketRepository) Delete(ctx context.Context, userName string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"userName": userName})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &r.table, Key: key})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}
