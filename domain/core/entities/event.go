package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// EventKind distinguishes the two sources of activity events.
type EventKind string

const (
	// EventKindJournal is a user-written journal entry with explicit tags.
	EventKindJournal EventKind = "journal"
	// EventKindImported is an imported history item with a single
	// classifier-assigned category.
	EventKindImported EventKind = "imported"
)

// importNamespace seeds deterministic ids for imported items so that
// re-running the same import produces the same item ids.
var importNamespace = uuid.MustParse("7b9c5cde-30a4-4f8e-9c5d-2f6e1a4b8d03")

// Event is one unit of user activity: a journal entry or an imported
// item. Events are immutable once created except for edit-in-place of
// a journal entry's text and tags.
type Event struct {
	id         string
	userID     string
	kind       EventKind
	text       string
	tags       []valueobjects.Tag
	title      string
	category   valueobjects.Dimension
	occurredAt time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

// NewJournalEntry creates a journal entry event with a fresh id. Raw
// tags are normalized and deduplicated; empty tags are never recorded.
func NewJournalEntry(userID, text string, rawTags []string, occurredAt time.Time) (*Event, error) {
	return NewJournalEntryWithID(uuid.New().String(), userID, text, rawTags, occurredAt)
}

// NewJournalEntryWithID creates a journal entry under a caller-chosen
// id, for callers that allocate ids up front.
func NewJournalEntryWithID(id, userID, text string, rawTags []string, occurredAt time.Time) (*Event, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("entry id cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	tags := valueobjects.NormalizeTags(rawTags)
	if strings.TrimSpace(text) == "" && len(tags) == 0 {
		return nil, pkgerrors.NewValidationError("entry needs text or at least one tag")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	now := time.Now()
	return &Event{
		id:         id,
		userID:     userID,
		kind:       EventKindJournal,
		text:       text,
		tags:       tags,
		category:   valueobjects.DimensionUnassigned,
		occurredAt: occurredAt,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// NewImportedItem creates an imported history item. The id is derived
// deterministically from owner, title and timestamp so re-importing
// the same history is idempotent at the item level.
func NewImportedItem(userID, title string, occurredAt time.Time, category valueobjects.Dimension) (*Event, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.NewValidationError("imported item needs a title")
	}
	if !category.Valid() {
		category = valueobjects.DimensionUnassigned
	}
	now := time.Now()
	seed := userID + "|" + title + "|" + occurredAt.UTC().Format(time.RFC3339)
	return &Event{
		id:         uuid.NewSHA1(importNamespace, []byte(seed)).String(),
		userID:     userID,
		kind:       EventKindImported,
		title:      title,
		category:   category,
		occurredAt: occurredAt,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructEvent rebuilds an event from repository data with
// preserved timestamps.
func ReconstructEvent(
	id, userID string,
	kind EventKind,
	text string,
	tags []valueobjects.Tag,
	title string,
	category valueobjects.Dimension,
	occurredAt, createdAt, updatedAt time.Time,
) (*Event, error) {
	if id == "" || userID == "" {
		return nil, pkgerrors.NewValidationError("event id and userID are required")
	}
	return &Event{
		id:         id,
		userID:     userID,
		kind:       kind,
		text:       text,
		tags:       tags,
		title:      title,
		category:   category,
		occurredAt: occurredAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

// UpdateEntry edits a journal entry's text and tags in place. The new
// tag set replaces the old one; co-occurrence weight contributed by
// the prior tag set is not retracted.
func (e *Event) UpdateEntry(text string, rawTags []string) error {
	if e.kind != EventKindJournal {
		return pkgerrors.NewValidationError("only journal entries can be edited")
	}
	tags := valueobjects.NormalizeTags(rawTags)
	if strings.TrimSpace(text) == "" && len(tags) == 0 {
		return pkgerrors.NewValidationError("entry needs text or at least one tag")
	}
	e.text = text
	e.tags = tags
	e.updatedAt = time.Now()
	return nil
}

// ID returns the event's unique identifier.
func (e *Event) ID() string { return e.id }

// UserID returns the owner's id.
func (e *Event) UserID() string { return e.userID }

// Kind returns the event's source kind.
func (e *Event) Kind() EventKind { return e.kind }

// Text returns the journal text, empty for imported items.
func (e *Event) Text() string { return e.text }

// Title returns the imported title, empty for journal entries.
func (e *Event) Title() string { return e.title }

// Category returns the classifier-assigned dimension for imported
// items, Unassigned otherwise.
func (e *Event) Category() valueobjects.Dimension { return e.category }

// Tags returns a copy of the normalized tag set.
func (e *Event) Tags() []valueobjects.Tag {
	tags := make([]valueobjects.Tag, len(e.tags))
	copy(tags, e.tags)
	return tags
}

// TitleTag returns the imported item's title normalized as a tag key,
// or the empty tag for journal entries.
func (e *Event) TitleTag() valueobjects.Tag {
	if e.kind != EventKindImported {
		return ""
	}
	return valueobjects.NormalizeTag(e.title)
}

// HasTimestamp reports whether the event carries an activity time.
// Events without one are excluded from temporal linking and trend
// bucketing but still appear as graph nodes.
func (e *Event) HasTimestamp() bool { return !e.occurredAt.IsZero() }

// OccurredAt returns the activity time.
func (e *Event) OccurredAt() time.Time { return e.occurredAt }

// CreatedAt returns when the event was first recorded.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns when the event was last modified.
func (e *Event) UpdatedAt() time.Time { return e.updatedAt }

// Weight returns the event's contribution to dimension scoring.
// Every plain event contributes 1.
func (e *Event) Weight() int { return 1 }
