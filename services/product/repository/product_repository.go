package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ovaldezb/aws-microservices/services/product/models"
)

// ProductRepo is the keyed product store.
type ProductRepo interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, update models.ProductUpdate) error
	Delete(ctx context.Context, id string) error
}

// DynamoProductRepository stores products in a DynamoDB table with partition
// key `id`.
type DynamoProductRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoProductRepository(client *dynamodb.Client, table string) *DynamoProductRepository {
	return &DynamoProductRepository{client: client, table: table}
}

// Get returns the product for id, or (nil, nil) when none exists.
func (r *DynamoProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
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

	var product models.Product
	if err := attributevalue.UnmarshalMap(out.Item, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &product, nil
}

func (r *DynamoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: &r.table})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		var batch []models.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		products = append(products, batch...)
	}
	return products, nil
}

// GetByCategory scans with a contains() filter on the category attribute.
func (r *DynamoProductRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	input := &dynamodb.ScanInput{
		TableName:        &r.table,
		FilterExpression: aws.String("contains(category, :category)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":category": &types.AttributeValueMemberS{Value: category},
		},
	}

	var products []models.Product
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		var batch []models.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		products = append(products, batch...)
	}
	return products, nil
}

func (r *DynamoProductRepository) Create(ctx context.Context, product *models.Product) error {
	item, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.table, Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

// Update applies only the fields present in update, via a generated
// UpdateExpression over the existing record.
func (r *DynamoProductRepository) Update(ctx context.Context, id string, update models.ProductUpdate) error {
	set := map[string]types.AttributeValue{}
	names := map[string]string{}
	expr := ""

	add := func(attr string, value types.AttributeValue) {
		idx := len(set)
		if expr != "" {
			expr += ", "
		}
		expr += fmt.Sprintf("#k%d = :v%d", idx, idx)
		names[fmt.Sprintf("#k%d", idx)] = attr
		set[fmt.Sprintf(":v%d", idx)] = value
	}

	if update.Name != nil {
		add("name", &types.AttributeValueMemberS{Value: *update.Name})
	}
	if update.Description != nil {
		add("description", &types.AttributeValueMemberS{Value: *update.Description})
	}
	if update.ImageFile != nil {
		add("imageFile", &types.AttributeValueMemberS{Value: *update.ImageFile})
	}
	if update.Category != nil {
		add("category", &types.AttributeValueMemberS{Value: *update.Category})
	}
	if update.Price != nil {
		add("price", &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", *update.Price)})
	}
	if len(set) == 0 {
		return nil
	}

	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.table,
		Key:                       key,
		UpdateExpression:          aws.String("SET " + expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: set,
	})
	if err != nil {
		return fmt.Errorf("dynamodb UpdateItem failed: %w", err)
	}
	return nil
}

func (r *DynamoProductRepository) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &r.table, Key: key})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}
