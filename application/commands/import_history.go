package commands

import (
	"errors"
	"time"
)

// ImportedRecord is one normalized history item handed over by the
// ingest parser. HasTime distinguishes a real timestamp from an
// absent one; items without a time still import but never link
// temporally.
type ImportedRecord struct {
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
	HasTime    bool      `json:"has_time"`
}

// ImportHistoryCommand classifies and imports a batch of history
// items for one user.
type ImportHistoryCommand struct {
	BatchID string           `json:"batch_id" validate:"required"`
	UserID  string           `json:"user_id" validate:"required"`
	Records []ImportedRecord `json:"records" validate:"required,min=1"`
}

// Validate checks command invariants.
func (c ImportHistoryCommand) Validate() error {
	if c.BatchID == "" {
		return errors.New("batch id is required")
	}
	if c.UserID == "" {
		return errors.New("user id is required")
	}
	if len(c.Records) == 0 {
		return errors.New("import needs at least one record")
	}
	return nil
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Linked   int `json:"linked"`
}

// UpdateTagMappingCommand pins a tag to a dimension for one user.
type UpdateTagMappingCommand struct {
	UserID    string `json:"user_id" validate:"required"`
	Tag       string `json:"tag" validate:"required"`
	Dimension string `json:"dimension" validate:"required"`
	TagType   string `json:"tag_type"`
}

// Validate checks command invariants.
func (c UpdateTagMappingCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("user id is required")
	}
	if c.Tag == "" {
		return errors.New("tag is required")
	}
	if c.Dimension == "" {
		return errors.New("dimension is required")
	}
	return nil
}
