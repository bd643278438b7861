package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

type mappingRecord struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Tag       string `dynamodbav:"Tag"`
	Dimension string `dynamodbav:"Dimension"`
	TagType   string `dynamodbav:"TagType"`
	Category  string `dynamodbav:"Category"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// TagMappingRepository persists tag-to-dimension mappings.
type TagMappingRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewTagMappingRepository creates the repository.
func NewTagMappingRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *TagMappingRepository {
	return &TagMappingRepository{client: client, tableName: tableName, logger: logger}
}

// Get retrieves one mapping. A missing mapping returns nil with no
// error; callers create mappings lazily.
func (r *TagMappingRepository) Get(ctx context.Context, userID string, tag valueobjects.Tag) (*entities.TagMapping, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: tagSK(tag)},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get tag mapping", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var record mappingRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal tag mapping").WithCause(err)
	}
	return fromMappingRecord(record)
}

// GetByUserID retrieves every mapping for a user.
func (r *TagMappingRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.TagMapping, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(tagSKPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build query").WithCause(err)
	}

	var mappings []*entities.TagMapping
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query tag mappings", err)
		}
		for _, item := range out.Items {
			var record mappingRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal tag mapping").WithCause(err)
			}
			mapping, err := fromMappingRecord(record)
			if err != nil {
				r.logger.Warn("skipping corrupt mapping record",
					zap.String("sk", record.SK),
					zap.Error(err),
				)
				continue
			}
			mappings = append(mappings, mapping)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return mappings, nil
}

// Put writes one mapping, replacing any existing one for the tag.
func (r *TagMappingRepository) Put(ctx context.Context, userID string, mapping *entities.TagMapping) error {
	item, err := attributevalue.MarshalMap(toMappingRecord(userID, mapping))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal tag mapping").WithCause(err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("put tag mapping", err)
	}
	return nil
}

// PutBatch writes many mappings through the chunked batch writer.
func (r *TagMappingRepository) PutBatch(ctx context.Context, userID string, mappings []*entities.TagMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	requests := make([]types.WriteRequest, 0, len(mappings))
	for _, mapping := range mappings {
		item, err := attributevalue.MarshalMap(toMappingRecord(userID, mapping))
		if err != nil {
			return pkgerrors.NewInternalError("failed to marshal tag mapping").WithCause(err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}
	if err := batchWrite(ctx, r.client, r.tableName, requests); err != nil {
		return pkgerrors.NewDatabaseError("put tag mapping batch", err)
	}
	return nil
}

func toMappingRecord(userID string, mapping *entities.TagMapping) mappingRecord {
	return mappingRecord{
		PK:        userPK(userID),
		SK:        tagSK(mapping.Tag()),
		Tag:       mapping.Tag().String(),
		Dimension: string(mapping.Dimension()),
		TagType:   string(mapping.Type()),
		Category:  string(mapping.Category()),
		UpdatedAt: mapping.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
}

func fromMappingRecord(record mappingRecord) (*entities.TagMapping, error) {
	updatedAt, err := parseRecordTime(record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return entities.ReconstructTagMapping(
		valueobjects.Tag(record.Tag),
		valueobjects.Dimension(record.Dimension),
		entities.TagType(record.TagType),
		valueobjects.Dimension(record.Category),
		updatedAt,
	)
}
