package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/application/queries"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
)

// ListEntriesHandler lists a user's activity log, newest first.
type ListEntriesHandler struct {
	eventRepo ports.EventRepository
	logger    *zap.Logger
}

// NewListEntriesHandler creates the handler.
func NewListEntriesHandler(eventRepo ports.EventRepository, logger *zap.Logger) *ListEntriesHandler {
	return &ListEntriesHandler{eventRepo: eventRepo, logger: logger}
}

// Handle answers the listing.
func (h *ListEntriesHandler) Handle(ctx context.Context, q queries.ListEntriesQuery) ([]queries.EntryView, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	events, err := h.eventRepo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt().After(events[j].CreatedAt())
	})
	if q.Limit > 0 && len(events) > q.Limit {
		events = events[:q.Limit]
	}

	views := make([]queries.EntryView, 0, len(events))
	for _, ev := range events {
		views = append(views, entryView(ev))
	}
	return views, nil
}

func entryView(ev *entities.Event) queries.EntryView {
	tags := make([]string, 0, len(ev.Tags()))
	for _, t := range ev.Tags() {
		tags = append(tags, t.String())
	}
	view := queries.EntryView{
		ID:        ev.ID(),
		Kind:      string(ev.Kind()),
		Text:      ev.Text(),
		Title:     ev.Title(),
		Tags:      tags,
		Category:  string(ev.Category()),
		CreatedAt: ev.CreatedAt().UTC().Format(time.RFC3339),
	}
	if ev.HasTimestamp() {
		view.OccurredAt = ev.OccurredAt().UTC().Format(time.RFC3339)
	}
	return view
}
