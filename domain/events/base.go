// Package events defines the domain events emitted when the activity
// log changes. Handlers publish them after persistence so downstream
// consumers can react without coupling to the write path.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by every event published on the bus.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	UserID() string
	Timestamp() time.Time
	Version() int
}

// BaseEvent carries the fields shared by all domain events.
type BaseEvent struct {
	ID          string    `json:"eventId"`
	Type        string    `json:"eventType"`
	Aggregate   string    `json:"aggregateId"`
	Owner       string    `json:"userId"`
	OccurredAt  time.Time `json:"timestamp"`
	SchemaValue int       `json:"version"`
}

func newBaseEvent(eventType, aggregateID, userID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Aggregate:   aggregateID,
		Owner:       userID,
		OccurredAt:  time.Now(),
		SchemaValue: 1,
	}
}

func (e BaseEvent) EventID() string      { return e.ID }
func (e BaseEvent) EventType() string    { return e.Type }
func (e BaseEvent) AggregateID() string  { return e.Aggregate }
func (e BaseEvent) UserID() string       { return e.Owner }
func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }
func (e BaseEvent) Version() int         { return e.SchemaValue }

// EntryRecorded is published after a journal entry is saved.
type EntryRecorded struct {
	BaseEvent
	Tags      []string `json:"tags"`
	PairCount int      `json:"pairCount"`
}

// NewEntryRecorded builds the event for a freshly saved entry.
func NewEntryRecorded(entryID, userID string, tags []string, pairCount int) EntryRecorded {
	return EntryRecorded{
		BaseEvent: newBaseEvent("compass.entry.recorded", entryID, userID),
		Tags:      tags,
		PairCount: pairCount,
	}
}

// EntryUpdated is published after a journal entry is edited in place.
type EntryUpdated struct {
	BaseEvent
	Tags []string `json:"tags"`
}

// NewEntryUpdated builds the event for an edited entry.
func NewEntryUpdated(entryID, userID string, tags []string) EntryUpdated {
	return EntryUpdated{
		BaseEvent: newBaseEvent("compass.entry.updated", entryID, userID),
		Tags:      tags,
	}
}

// HistoryImported is published once per completed import batch.
type HistoryImported struct {
	BaseEvent
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Linked   int `json:"linked"`
}

// NewHistoryImported builds the event summarizing one import run.
func NewHistoryImported(batchID, userID string, imported, skipped, linked int) HistoryImported {
	return HistoryImported{
		BaseEvent: newBaseEvent("compass.history.imported", batchID, userID),
		Imported:  imported,
		Skipped:   skipped,
		Linked:    linked,
	}
}

// TagMappingUpdated is published when a tag is pinned to a dimension.
type TagMappingUpdated struct {
	BaseEvent
	Tag       string `json:"tag"`
	Dimension string `json:"dimension"`
}

// NewTagMappingUpdated builds the event for a mapping change.
func NewTagMappingUpdated(userID, tag, dimension string) TagMappingUpdated {
	return TagMappingUpdated{
		BaseEvent: newBaseEvent("compass.mapping.updated", tag, userID),
		Tag:       tag,
		Dimension: dimension,
	}
}
