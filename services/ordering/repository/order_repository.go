package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ovaldezb/aws-microservices/services/ordering/models"
)

// OrderRepo persists orders keyed by (userName, orderDate). Put is an
// unconditional upsert: writing the same key twice must leave exactly one
// record, which is what makes at-least-once delivery safe upstream.
type OrderRepo interface {
	Put(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, userName, orderDate string) (*models.Order, error)
	QueryByUser(ctx context.Context, userName string) ([]models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
}

// DynamoOrderRepository stores orders in a DynamoDB table with partition key
// `userName` and sort key `orderDate`.
type DynamoOrderRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoOrderRepository(client *dynamodb.Client, table string) *DynamoOrderRepository {
	return &DynamoOrderRepository{client: client, table: table}
}

func (r *DynamoOrderRepository) Put(ctx context.Context, order *models.Order) error {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (r *DynamoOrderRepository) Get(ctx context.Context, userName, orderDate string) (*models.Order, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"userName":  userName,
		"orderDate": orderDate,
	})
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

	var order models.Order
	if err := attributevalue.UnmarshalMap(out.Item, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &order, nil
}

func (r *DynamoOrderRepository) QueryByUser(ctx context.Context, userName string) ([]models.Order, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &r.table,
		KeyConditionExpression: aws.String("userName = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userName},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb Query failed: %w", err)
	}

	var orders []models.Order
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &orders); err != nil {
		return nil, fmt.Errorf("unmarshal orders: %w", err)
	}
	return orders, nil
}

func (r *DynamoOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: &r.table})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		var batch []models.Order
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		orders = append(orders, batch...)
	}
	return orders, nil
}
