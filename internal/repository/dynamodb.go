package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/models"
	"auctiontracker/internal/uuid"
)

// DefaultPropertiesTable is used when no table name is configured.
const DefaultPropertiesTable = "properties"

// maxUpdateAttempts bounds the read-merge-write retries of a contended update.
const maxUpdateAttempts = 5

// DynamoAPI is the subset of the DynamoDB client used by the repository.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

type costsItem struct {
	Reform   float64 `dynamodbav:"reform"`
	Legal    float64 `dynamodbav:"legal"`
	ITBI     float64 `dynamodbav:"itbi"`
	Deed     float64 `dynamodbav:"deed"`
	Vacating float64 `dynamodbav:"vacating"`
	Extra    float64 `dynamodbav:"extra"`
}

// propertyItem is the table layout. Table requirements:
//   - PK: id (string)
//   - version (number) guards updates against lost writes
type propertyItem struct {
	ID                  string    `dynamodbav:"id"`
	UserID              string    `dynamodbav:"user_id"`
	Title               string    `dynamodbav:"title"`
	Address             string    `dynamodbav:"address"`
	Type                string    `dynamodbav:"type"`
	AuctionNoticeNumber string    `dynamodbav:"auction_notice_number"`
	Auctioneer          string    `dynamodbav:"auctioneer"`
	AuctionLink         string    `dynamodbav:"auction_link"`
	AuctionDate         string    `dynamodbav:"auction_date"`
	Situation           string    `dynamodbav:"situation"`
	PurchaseValue       float64   `dynamodbav:"purchase_value"`
	EvaluationValue     float64   `dynamodbav:"evaluation_value"`
	ExpectedCosts       costsItem `dynamodbav:"expected_costs"`
	ExecutedCosts       costsItem `dynamodbav:"executed_costs"`
	EstimatedSalePrice  float64   `dynamodbav:"estimated_sale_price"`
	ActualSalePrice     *float64  `dynamodbav:"actual_sale_price"`
	Status              string    `dynamodbav:"status"`
	CreatedAt           string    `dynamodbav:"created_at"`
	Version             int64     `dynamodbav:"version,omitempty"`
}

// dynamoPropertyRepository persists properties in a DynamoDB table.
type dynamoPropertyRepository struct {
	ddb       DynamoAPI
	tableName string
}

// NewDynamoPropertyRepository creates a PropertyRepository backed by DynamoDB.
func NewDynamoPropertyRepository(ddb DynamoAPI, tableName string) PropertyRepository {
	if tableName == "" {
		tableName = DefaultPropertiesTable
	}
	return &dynamoPropertyRepository{ddb: ddb, tableName: tableName}
}

// EnsureDynamoTable creates the properties table when it does not exist yet.
func EnsureDynamoTable(ctx context.Context, ddb DynamoAPI, tableName string) error {
	if tableName == "" {
		tableName = DefaultPropertiesTable
	}
	_, err := ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return err
	}

	_, err = ddb.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	return err
}

func (r *dynamoPropertyRepository) Create(ctx context.Context, in models.PropertyInput, ownerID string) (*models.Property, error) {
	p := models.NewProperty(in, ownerID, uuid.New(), now())
	it := toPropertyItem(p)
	it.Version = 1

	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &p, nil
}

// Update merges patch into the stored item with optimistic locking: the write
// only succeeds if the item still carries the version that was read. On a
// conflict the item is re-read and the patch re-applied.
func (r *dynamoPropertyRepository) Update(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := r.getItem(ctx, id)
		if err != nil {
			return nil, err
		}

		p := fromPropertyItem(*current)
		p.Apply(patch)
		next := toPropertyItem(p)
		next.Version = current.Version + 1

		err = r.putIfVersion(ctx, next, current.Version)
		if err == nil {
			return &p, nil
		}
		var cfe *types.ConditionalCheckFailedException
		if !errors.As(err, &cfe) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil, apperrors.ErrPropertyConflict
}

func (r *dynamoPropertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	it, err := r.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	p := fromPropertyItem(*it)
	return &p, nil
}

func (r *dynamoPropertyRepository) getItem(ctx context.Context, id string) (*propertyItem, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.ErrPropertyNotFound
	}

	var it propertyItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &it, nil
}

// putIfVersion writes it only if the stored item still has version expected.
// Items written before versioning have no version attribute and read as 0.
func (r *dynamoPropertyRepository) putIfVersion(ctx context.Context, it propertyItem, expected int64) error {
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return err
	}

	in := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}
	if expected == 0 {
		in.ConditionExpression = aws.String("attribute_exists(#id) AND attribute_not_exists(#version)")
		in.ExpressionAttributeNames = map[string]string{"#id": "id", "#version": "version"}
	} else {
		in.ConditionExpression = aws.String("#version = :version")
		in.ExpressionAttributeNames = map[string]string{"#version": "version"}
		in.ExpressionAttributeValues = map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
		}
	}
	_, err = r.ddb.PutItem(ctx, in)
	return err
}

func (r *dynamoPropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("#user_id = :user_id"),
		ExpressionAttributeNames: map[string]string{"#user_id": "user_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberS{Value: ownerID},
		},
	})
}

func (r *dynamoPropertyRepository) ListAll(ctx context.Context) ([]models.Property, error) {
	return r.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
}

func (r *dynamoPropertyRepository) CountByOwner(ctx context.Context) (map[string]int64, error) {
	properties, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for i := range properties {
		counts[properties[i].UserID]++
	}
	return counts, nil
}

// scan reads every page of a scan. DynamoDB returns items in hash order, so the
// result is re-sorted into insertion order.
func (r *dynamoPropertyRepository) scan(ctx context.Context, in *dynamodb.ScanInput) ([]models.Property, error) {
	properties := []models.Property{}
	paginator := dynamodb.NewScanPaginator(r.ddb, in)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		var items []propertyItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, it := range items {
			properties = append(properties, fromPropertyItem(it))
		}
	}
	sortByInsertion(properties)
	return properties, nil
}

func toCostsItem(c models.CostBucket) costsItem {
	return costsItem{Reform: c.Reform, Legal: c.Legal, ITBI: c.ITBI, Deed: c.Deed, Vacating: c.Vacating, Extra: c.Extra}
}

func fromCostsItem(c costsItem) models.CostBucket {
	return models.CostBucket{Reform: c.Reform, Legal: c.Legal, ITBI: c.ITBI, Deed: c.Deed, Vacating: c.Vacating, Extra: c.Extra}
}

func toPropertyItem(p models.Property) propertyItem {
	return propertyItem{
		ID:                  p.ID,
		UserID:              p.UserID,
		Title:               p.Title,
		Address:             p.Address,
		Type:                string(p.Type),
		AuctionNoticeNumber: p.AuctionNoticeNumber,
		Auctioneer:          p.Auctioneer,
		AuctionLink:         p.AuctionLink,
		AuctionDate:         p.AuctionDate,
		Situation:           string(p.Situation),
		PurchaseValue:       p.PurchaseValue,
		EvaluationValue:     p.EvaluationValue,
		ExpectedCosts:       toCostsItem(p.ExpectedCosts),
		ExecutedCosts:       toCostsItem(p.ExecutedCosts),
		EstimatedSalePrice:  p.EstimatedSalePrice,
		ActualSalePrice:     p.ActualSalePrice,
		Status:              string(p.Status),
		CreatedAt:           p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromPropertyItem(it propertyItem) models.Property {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	return models.Property{
		Base:                models.Base{ID: it.ID, CreatedAt: createdAt},
		UserID:              it.UserID,
		Title:               it.Title,
		Address:             it.Address,
		Type:                models.PropertyType(it.Type),
		AuctionNoticeNumber: it.AuctionNoticeNumber,
		Auctioneer:          it.Auctioneer,
		AuctionLink:         it.AuctionLink,
		AuctionDate:         it.AuctionDate,
		Situation:           models.PropertySituation(it.Situation),
		PurchaseValue:       it.PurchaseValue,
		EvaluationValue:     it.EvaluationValue,
		ExpectedCosts:       fromCostsItem(it.ExpectedCosts),
		ExecutedCosts:       fromCostsItem(it.ExecutedCosts),
		EstimatedSalePrice:  it.EstimatedSalePrice,
		ActualSalePrice:     it.ActualSalePrice,
		Status:              models.PropertyStatus(it.Status),
	}
}
