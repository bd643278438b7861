package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	"github.com/Asadaligondal/Identity-Compass/domain/events"
	"github.com/Asadaligondal/Identity-Compass/domain/services"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// Classification retry policy: fixed delay, small bounded attempt
// count, interruptible by context between attempts.
const (
	classifyRetries    = 3
	classifyRetryDelay = 10 * time.Second
)

// ImportHistoryHandler classifies and persists one import batch.
type ImportHistoryHandler struct {
	eventRepo   ports.EventRepository
	mappingRepo ports.TagMappingRepository
	classifier  ports.Classifier
	publisher   ports.EventPublisher
	logger      *zap.Logger
	retryDelay  time.Duration
	window      time.Duration
}

// NewImportHistoryHandler creates the handler.
func NewImportHistoryHandler(
	eventRepo ports.EventRepository,
	mappingRepo ports.TagMappingRepository,
	classifier ports.Classifier,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ImportHistoryHandler {
	return &ImportHistoryHandler{
		eventRepo:   eventRepo,
		mappingRepo: mappingRepo,
		classifier:  classifier,
		publisher:   publisher,
		logger:      logger,
		retryDelay:  classifyRetryDelay,
		window:      services.DefaultTemporalWindow,
	}
}

// SetTemporalWindow overrides the linking window used for the report.
func (h *ImportHistoryHandler) SetTemporalWindow(window time.Duration) {
	if window > 0 {
		h.window = window
	}
}

// Handle runs the import: classify titles in bounded batches, build
// deterministic items so re-imports stay idempotent, persist, seed
// title mappings, and report how many items would link temporally.
// Classification failures abort the whole run with no partial writes;
// nothing is silently dropped.
func (h *ImportHistoryHandler) Handle(ctx context.Context, cmd commands.ImportHistoryCommand) (*commands.ImportResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	// Drop unusable records up front so classification batches align
	// one-to-one with titles.
	kept := make([]commands.ImportedRecord, 0, len(cmd.Records))
	skipped := 0
	for _, rec := range cmd.Records {
		if valueobjects.NormalizeTag(rec.Title).IsEmpty() {
			skipped++
			continue
		}
		kept = append(kept, rec)
	}
	if len(kept) == 0 {
		return &commands.ImportResult{Skipped: skipped}, nil
	}

	dims, err := h.classifyAll(ctx, kept)
	if err != nil {
		return nil, err
	}

	items := make([]*entities.Event, 0, len(kept))
	mappings := make([]*entities.TagMapping, 0, len(kept))
	seenTitles := make(map[valueobjects.Tag]bool, len(kept))
	for i, rec := range kept {
		at := rec.OccurredAt
		if !rec.HasTime {
			at = time.Time{}
		}
		item, err := entities.NewImportedItem(cmd.UserID, rec.Title, at, dims[i])
		if err != nil {
			skipped++
			continue
		}
		items = append(items, item)

		title := item.TitleTag()
		if !seenTitles[title] {
			seenTitles[title] = true
			if m, err := entities.NewTagMapping(title, dims[i], entities.TagTypeConcept); err == nil {
				mappings = append(mappings, m)
			}
		}
	}

	if err := h.eventRepo.SaveBatch(ctx, cmd.UserID, items); err != nil {
		return nil, fmt.Errorf("failed to save imported items: %w", err)
	}
	if err := h.mappingRepo.PutBatch(ctx, cmd.UserID, mappings); err != nil {
		h.logger.Warn("failed to store title mappings", zap.Error(err))
	}

	linked := len(services.LinkByTime(items, h.window))

	result := &commands.ImportResult{
		Imported: len(items),
		Skipped:  skipped,
		Linked:   linked,
	}
	evt := events.NewHistoryImported(cmd.BatchID, cmd.UserID, result.Imported, result.Skipped, result.Linked)
	if err := h.publisher.Publish(ctx, evt); err != nil {
		h.logger.Warn("failed to publish history imported event", zap.Error(err))
	}

	h.logger.Info("history imported",
		zap.String("userID", cmd.UserID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("linked", result.Linked),
	)
	return result, nil
}

// classifyAll runs every bounded batch through the oracle, backing
// off on rate limits.
func (h *ImportHistoryHandler) classifyAll(ctx context.Context, recs []commands.ImportedRecord) ([]valueobjects.Dimension, error) {
	dims := make([]valueobjects.Dimension, 0, len(recs))
	for start := 0; start < len(recs); start += ports.MaxClassifyBatch {
		end := start + ports.MaxClassifyBatch
		if end > len(recs) {
			end = len(recs)
		}
		titles := make([]string, 0, end-start)
		for _, rec := range recs[start:end] {
			titles = append(titles, rec.Title)
		}

		batch, err := h.classifyWithRetry(ctx, titles)
		if err != nil {
			return nil, err
		}
		if len(batch) != len(titles) {
			return nil, pkgerrors.NewExternalError("classifier", fmt.Errorf("short batch: got %d labels for %d titles", len(batch), len(titles)))
		}
		dims = append(dims, batch...)
	}
	return dims, nil
}

func (h *ImportHistoryHandler) classifyWithRetry(ctx context.Context, titles []string) ([]valueobjects.Dimension, error) {
	var lastErr error
	for attempt := 0; attempt <= classifyRetries; attempt++ {
		if attempt > 0 {
			h.logger.Warn("classifier rate limited, backing off",
				zap.Int("attempt", attempt),
				zap.Duration("delay", h.retryDelay),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(h.retryDelay):
			}
		}
		dims, err := h.classifier.Classify(ctx, titles)
		if err == nil {
			return dims, nil
		}
		lastErr = err
		if !errors.Is(err, ports.ErrRateLimited) {
			return nil, fmt.Errorf("classification failed: %w", err)
		}
	}
	return nil, pkgerrors.NewRateLimitError("classifier still rate limited after retries").WithCause(lastErr)
}
