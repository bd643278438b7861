package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/queries"
	querybus "github.com/Asadaligondal/Identity-Compass/application/queries/bus"
	"github.com/Asadaligondal/Identity-Compass/pkg/common"
)

// GraphHandler serves the co-occurrence graph endpoints. Requests
// that omit the filter parameters fall back to the configured
// defaults.
type GraphHandler struct {
	queryBus     *querybus.QueryBus
	minFrequency int
	nodeCap      int
	logger       *zap.Logger
}

// NewGraphHandler creates the handler.
func NewGraphHandler(queryBus *querybus.QueryBus, minFrequency, nodeCap int, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		queryBus:     queryBus,
		minFrequency: minFrequency,
		nodeCap:      nodeCap,
		logger:       logger,
	}
}

// GetGraphData returns the filtered rendering graph.
func (h *GraphHandler) GetGraphData(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	minFrequency, err := queryInt(r, "min_frequency")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "min_frequency must be a non-negative integer")
		return
	}
	nodeCap, err := queryInt(r, "node_cap")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "node_cap must be a non-negative integer")
		return
	}
	if minFrequency == 0 {
		minFrequency = h.minFrequency
	}
	if nodeCap == 0 {
		nodeCap = h.nodeCap
	}

	linkByTime := true
	if raw := r.URL.Query().Get("link_by_time"); raw != "" {
		linkByTime, err = strconv.ParseBool(raw)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "link_by_time must be a boolean")
			return
		}
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetGraphDataQuery{
		UserID:            userID,
		MinFrequency:      minFrequency,
		NodeCap:           nodeCap,
		SkipTemporalLinks: !linkByTime,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetConnections returns the weighted connection list, or one tag's
// neighbourhood when the tag parameter is set.
func (h *GraphHandler) GetConnections(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	minWeight, err := queryInt(r, "min_weight")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "min_weight must be a non-negative integer")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetConnectionsQuery{
		UserID:    userID,
		Tag:       r.URL.Query().Get("tag"),
		MinWeight: minWeight,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// queryInt parses a non-negative integer query parameter, zero when
// absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, strconv.ErrSyntax
	}
	return parsed, nil
}
