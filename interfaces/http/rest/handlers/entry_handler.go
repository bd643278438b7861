// Package handlers implements the REST endpoints. Writes go through
// the command side, reads through the query bus.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	cmdbus "github.com/Asadaligondal/Identity-Compass/application/commands/bus"
	"github.com/Asadaligondal/Identity-Compass/application/queries"
	querybus "github.com/Asadaligondal/Identity-Compass/application/queries/bus"
	"github.com/Asadaligondal/Identity-Compass/pkg/common"
)

// maxBodyBytes bounds request payloads.
const maxBodyBytes = 1 << 20

// EntryHandler serves the journal entry endpoints.
type EntryHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewEntryHandler creates the handler.
func NewEntryHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		validate:   validator.New(),
		logger:     logger,
	}
}

type createEntryRequest struct {
	Text       string    `json:"text" validate:"max=10000"`
	Tags       []string  `json:"tags" validate:"max=50,dive,max=100"`
	OccurredAt time.Time `json:"occurred_at"`
}

type updateEntryRequest struct {
	Text string   `json:"text" validate:"max=10000"`
	Tags []string `json:"tags" validate:"max=50,dive,max=100"`
}

// CreateEntry records a journal entry. The id is allocated here so the
// response can return it without round-tripping through the bus.
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	var req createEntryRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	if req.OccurredAt.IsZero() {
		req.OccurredAt = time.Now()
	}

	entryID := uuid.New().String()
	cmd := commands.RecordEntryCommand{
		EntryID:    entryID,
		UserID:     userID,
		Text:       req.Text,
		Tags:       req.Tags,
		OccurredAt: req.OccurredAt,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": entryID})
}

// UpdateEntry edits an existing journal entry.
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}
	entryID := chi.URLParam(r, "id")

	var req updateEntryRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	cmd := commands.UpdateEntryCommand{
		EntryID: entryID,
		UserID:  userID,
		Text:    req.Text,
		Tags:    req.Tags,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": entryID})
}

// ListEntries returns the user's activity log, newest first.
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListEntriesQuery{UserID: userID, Limit: limit})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	views, ok := result.([]queries.EntryView)
	if !ok {
		h.logger.Error("unexpected list entries result type")
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"entries": views})
}
