package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/queries"
	querybus "github.com/Asadaligondal/Identity-Compass/application/queries/bus"
	"github.com/Asadaligondal/Identity-Compass/pkg/common"
)

// InsightHandler serves the trajectory and trends endpoints.
type InsightHandler struct {
	queryBus   *querybus.QueryBus
	windowDays int
	logger     *zap.Logger
}

// NewInsightHandler creates the handler.
func NewInsightHandler(queryBus *querybus.QueryBus, windowDays int, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{queryBus: queryBus, windowDays: windowDays, logger: logger}
}

// GetTrajectory returns the trailing-window dimension snapshot.
func (h *InsightHandler) GetTrajectory(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	windowDays, err := queryInt(r, "window_days")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "window_days must be a non-negative integer")
		return
	}
	if windowDays == 0 {
		windowDays = h.windowDays
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetTrajectoryQuery{
		UserID:     userID,
		WindowDays: windowDays,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetTrends returns the monthly trend series, composition totals and
// the user's archetype.
func (h *InsightHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetTrendsQuery{UserID: userID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
