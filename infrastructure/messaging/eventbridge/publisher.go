// Package eventbridge publishes domain events to an AWS EventBridge
// bus. Rules and targets are configured outside the application.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/domain/events"
)

// eventSource identifies this service on the bus.
const eventSource = "identity-compass.api"

// putEventsLimit is EventBridge's PutEvents entry cap.
const putEventsLimit = 10

// Publisher sends domain events to EventBridge.
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates an EventBridge-backed event publisher.
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends one event.
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends events in chunks of at most ten.
func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for start := 0; start < len(domainEvents); start += putEventsLimit {
		end := start + putEventsLimit
		if end > len(domainEvents) {
			end = len(domainEvents)
		}
		if err := p.putEvents(ctx, domainEvents[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) putEvents(ctx context.Context, domainEvents []events.DomainEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(domainEvents))
	for _, event := range domainEvents {
		detail, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("failed to marshal domain event",
				zap.String("eventType", event.EventType()),
				zap.Error(err),
			)
			continue
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(eventSource),
			DetailType:   aws.String(event.EventType()),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.Timestamp()),
			Resources: []string{
				fmt.Sprintf("arn:aws:identity-compass::%s", event.AggregateID()),
			},
		})
	}
	if len(entries) == 0 {
		return nil
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}
	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Error("event rejected by EventBridge",
					zap.String("eventType", domainEvents[i].EventType()),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
	}

	p.logger.Debug("events published",
		zap.Int("count", len(entries)),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}
