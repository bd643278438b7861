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

type connectionRecord struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	Source      string `dynamodbav:"Source"`
	Target      string `dynamodbav:"Target"`
	Weight      int    `dynamodbav:"Weight"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	LastUpdated string `dynamodbav:"LastUpdated"`
}

// ConnectionRepository persists tag co-occurrence weights.
type ConnectionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewConnectionRepository creates the repository.
func NewConnectionRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *ConnectionRepository {
	return &ConnectionRepository{client: client, tableName: tableName, logger: logger}
}

// GetByUserID retrieves every connection for a user.
func (r *ConnectionRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Connection, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(connSKPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build query").WithCause(err)
	}

	var connections []*entities.Connection
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
			return nil, pkgerrors.NewDatabaseError("query connections", err)
		}
		for _, item := range out.Items {
			var record connectionRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal connection").WithCause(err)
			}
			conn, err := fromConnectionRecord(record)
			if err != nil {
				r.logger.Warn("skipping corrupt connection record",
					zap.String("sk", record.SK),
					zap.Error(err),
				)
				continue
			}
			connections = append(connections, conn)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return connections, nil
}

// IncrementWeights bumps the weight of each pair by one, creating the
// item on first co-occurrence. The ADD is atomic per pair, so two
// entries recorded at the same moment both count. Source and Target
// are reserved words in DynamoDB, which the expression builder handles
// through attribute name placeholders.
func (r *ConnectionRepository) IncrementWeights(ctx context.Context, userID string, pairs []valueobjects.PairKey, now time.Time) error {
	stamp := now.UTC().Format(time.RFC3339Nano)
	for _, pair := range pairs {
		update := expression.
			Add(expression.Name("Weight"), expression.Value(1)).
			Set(expression.Name("Source"), expression.Value(pair.Source.String())).
			Set(expression.Name("Target"), expression.Value(pair.Target.String())).
			Set(expression.Name("CreatedAt"),
				expression.IfNotExists(expression.Name("CreatedAt"), expression.Value(stamp))).
			Set(expression.Name("LastUpdated"), expression.Value(stamp))
		expr, err := expression.NewBuilder().WithUpdate(update).Build()
		if err != nil {
			return pkgerrors.NewInternalError("failed to build update").WithCause(err)
		}

		_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
				"SK": &types.AttributeValueMemberS{Value: connSK(pair)},
			},
			UpdateExpression:          expr.Update(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("increment connection weight", err)
		}
	}
	return nil
}

func fromConnectionRecord(record connectionRecord) (*entities.Connection, error) {
	createdAt, err := parseRecordTime(record.CreatedAt)
	if err != nil {
		return nil, err
	}
	lastUpdated, err := parseRecordTime(record.LastUpdated)
	if err != nil {
		return nil, err
	}
	pair, err := valueobjects.NewPairKey(
		valueobjects.Tag(record.Source),
		valueobjects.Tag(record.Target),
	)
	if err != nil {
		return nil, err
	}
	return entities.ReconstructConnection(pair, record.Weight, createdAt, lastUpdated)
}
