// Package commands defines the write-side requests of the engine.
// Each command carries caller-allocated ids so the bus can stay
// fire-and-forget.
package commands

import (
	"errors"
	"time"
)

// RecordEntryCommand creates one journal entry and feeds its tag set
// into the co-occurrence graph.
type RecordEntryCommand struct {
	EntryID    string    `json:"entry_id" validate:"required,uuid"`
	UserID     string    `json:"user_id" validate:"required"`
	Text       string    `json:"text" validate:"max=10000"`
	Tags       []string  `json:"tags" validate:"max=50,dive,max=100"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate checks command invariants.
func (c RecordEntryCommand) Validate() error {
	if c.EntryID == "" {
		return errors.New("entry id is required")
	}
	if c.UserID == "" {
		return errors.New("user id is required")
	}
	if c.Text == "" && len(c.Tags) == 0 {
		return errors.New("entry needs text or at least one tag")
	}
	return nil
}

// UpdateEntryCommand edits a journal entry's text and tags in place.
type UpdateEntryCommand struct {
	EntryID string   `json:"entry_id" validate:"required"`
	UserID  string   `json:"user_id" validate:"required"`
	Text    string   `json:"text" validate:"max=10000"`
	Tags    []string `json:"tags" validate:"max=50,dive,max=100"`
}

// Validate checks command invariants.
func (c UpdateEntryCommand) Validate() error {
	if c.EntryID == "" {
		return errors.New("entry id is required")
	}
	if c.UserID == "" {
		return errors.New("user id is required")
	}
	if c.Text == "" && len(c.Tags) == 0 {
		return errors.New("entry needs text or at least one tag")
	}
	return nil
}
