package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	cmdhandlers "github.com/Asadaligondal/Identity-Compass/application/commands/handlers"
	"github.com/Asadaligondal/Identity-Compass/application/queries"
	querybus "github.com/Asadaligondal/Identity-Compass/application/queries/bus"
	"github.com/Asadaligondal/Identity-Compass/pkg/common"
)

// MappingHandler serves the tag mapping endpoints.
type MappingHandler struct {
	updater  *cmdhandlers.UpdateTagMappingHandler
	queryBus *querybus.QueryBus
	validate *validator.Validate
	logger   *zap.Logger
}

// NewMappingHandler creates the handler.
func NewMappingHandler(updater *cmdhandlers.UpdateTagMappingHandler, queryBus *querybus.QueryBus, logger *zap.Logger) *MappingHandler {
	return &MappingHandler{
		updater:  updater,
		queryBus: queryBus,
		validate: validator.New(),
		logger:   logger,
	}
}

type updateMappingRequest struct {
	Dimension string `json:"dimension" validate:"required"`
	TagType   string `json:"tag_type"`
}

// ListMappings returns the user's tag mappings sorted by tag.
func (h *MappingHandler) ListMappings(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetTagMappingsQuery{UserID: userID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"mappings": result})
}

// UpdateMapping pins a tag to a dimension.
func (h *MappingHandler) UpdateMapping(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}
	tag := chi.URLParam(r, "tag")

	var req updateMappingRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	cmd := commands.UpdateTagMappingCommand{
		UserID:    userID,
		Tag:       tag,
		Dimension: req.Dimension,
		TagType:   req.TagType,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	mapping, err := h.updater.Handle(r.Context(), cmd)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, queries.TagMappingView{
		Tag:       mapping.Tag().String(),
		Dimension: string(mapping.Dimension()),
		Type:      string(mapping.Type()),
		UpdatedAt: mapping.UpdatedAt().UTC().Format(time.RFC3339),
	})
}
