package memory

import (
	"context"
	"sync"

	"github.com/Asadaligondal/Identity-Compass/domain/events"
)

// EventPublisher records published domain events in memory. Local
// mode and tests use it in place of EventBridge.
type EventPublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent
}

// NewEventPublisher creates an empty recorder.
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

// Publish records one event.
func (p *EventPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

// PublishBatch records many events.
func (p *EventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	for _, e := range evts {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Published returns a copy of everything recorded so far.
func (p *EventPublisher) Published() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.DomainEvent, len(p.published))
	copy(out, p.published)
	return out
}
