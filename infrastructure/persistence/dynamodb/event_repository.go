package dynamodb

import (
	"context"
	"fmt"
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

// eventRecord is the storage shape of one activity event.
type eventRecord struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EventID    string   `dynamodbav:"EventID"`
	UserID     string   `dynamodbav:"UserID"`
	Kind       string   `dynamodbav:"Kind"`
	Text       string   `dynamodbav:"Text,omitempty"`
	Tags       []string `dynamodbav:"Tags,omitempty"`
	Title      string   `dynamodbav:"Title,omitempty"`
	Category   string   `dynamodbav:"Category"`
	OccurredAt string   `dynamodbav:"OccurredAt,omitempty"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
	UpdatedAt  string   `dynamodbav:"UpdatedAt"`
}

// EventRepository persists events in the single table.
type EventRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewEventRepository creates the repository.
func NewEventRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *EventRepository {
	return &EventRepository{client: client, tableName: tableName, logger: logger}
}

// Save persists one event, overwriting by id.
func (r *EventRepository) Save(ctx context.Context, event *entities.Event) error {
	item, err := attributevalue.MarshalMap(toEventRecord(event))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal event").WithCause(err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("save event", err)
	}
	return nil
}

// SaveBatch persists many events through the chunked batch writer.
func (r *EventRepository) SaveBatch(ctx context.Context, userID string, events []*entities.Event) error {
	if len(events) == 0 {
		return nil
	}
	requests := make([]types.WriteRequest, 0, len(events))
	for _, ev := range events {
		item, err := attributevalue.MarshalMap(toEventRecord(ev))
		if err != nil {
			return pkgerrors.NewInternalError("failed to marshal event").WithCause(err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}
	if err := batchWrite(ctx, r.client, r.tableName, requests); err != nil {
		return pkgerrors.NewDatabaseError("save event batch", err)
	}
	r.logger.Debug("event batch saved",
		zap.String("userID", userID),
		zap.Int("count", len(events)),
	)
	return nil
}

// GetByID retrieves one event.
func (r *EventRepository) GetByID(ctx context.Context, userID, eventID string) (*entities.Event, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: entrySK(eventID)},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get event", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("entry")
	}
	var record eventRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal event").WithCause(err)
	}
	return fromEventRecord(record)
}

// GetByUserID retrieves every event for a user.
func (r *EventRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Event, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(entrySKPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build query").WithCause(err)
	}

	var events []*entities.Event
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
			return nil, pkgerrors.NewDatabaseError("query events", err)
		}
		for _, item := range out.Items {
			var record eventRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal event").WithCause(err)
			}
			ev, err := fromEventRecord(record)
			if err != nil {
				r.logger.Warn("skipping corrupt event record",
					zap.String("sk", record.SK),
					zap.Error(err),
				)
				continue
			}
			events = append(events, ev)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return events, nil
}

func toEventRecord(ev *entities.Event) eventRecord {
	tags := make([]string, 0, len(ev.Tags()))
	for _, t := range ev.Tags() {
		tags = append(tags, t.String())
	}
	record := eventRecord{
		PK:        userPK(ev.UserID()),
		SK:        entrySK(ev.ID()),
		EventID:   ev.ID(),
		UserID:    ev.UserID(),
		Kind:      string(ev.Kind()),
		Text:      ev.Text(),
		Tags:      tags,
		Title:     ev.Title(),
		Category:  string(ev.Category()),
		CreatedAt: ev.CreatedAt().UTC().Format(time.RFC3339Nano),
		UpdatedAt: ev.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
	if ev.HasTimestamp() {
		record.OccurredAt = ev.OccurredAt().UTC().Format(time.RFC3339Nano)
	}
	return record
}

func fromEventRecord(record eventRecord) (*entities.Event, error) {
	tags := make([]valueobjects.Tag, 0, len(record.Tags))
	for _, t := range record.Tags {
		tags = append(tags, valueobjects.Tag(t))
	}
	occurredAt, err := parseRecordTime(record.OccurredAt)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseRecordTime(record.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseRecordTime(record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return entities.ReconstructEvent(
		record.EventID, record.UserID,
		entities.EventKind(record.Kind),
		record.Text, tags, record.Title,
		valueobjects.Dimension(record.Category),
		occurredAt, createdAt, updatedAt,
	)
}

func parseRecordTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	at, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad stored timestamp %q: %w", s, err)
	}
	return at, nil
}
