package handlers

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	cmdhandlers "github.com/Asadaligondal/Identity-Compass/application/commands/handlers"
	"github.com/Asadaligondal/Identity-Compass/interfaces/ingest"
	"github.com/Asadaligondal/Identity-Compass/pkg/common"
)

// maxImportBytes bounds the uploaded history file.
const maxImportBytes = 32 << 20

// ImportHandler serves the history import endpoint. It calls the
// typed handler directly because the response needs the import counts.
type ImportHandler struct {
	importer *cmdhandlers.ImportHistoryHandler
	logger   *zap.Logger
}

// NewImportHandler creates the handler.
func NewImportHandler(importer *cmdhandlers.ImportHistoryHandler, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importer: importer, logger: logger}
}

// ImportHistory accepts a raw history export, parses it and runs the
// import. A malformed export rejects the whole batch before any write.
func (h *ImportHandler) ImportHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "failed to read upload")
		return
	}

	records, err := ingest.ParseHistory(body)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	cmd := commands.ImportHistoryCommand{
		BatchID: uuid.New().String(),
		UserID:  userID,
		Records: records,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	result, err := h.importer.Handle(r.Context(), cmd)
	if err != nil {
		h.logger.Warn("history import failed",
			zap.String("userID", userID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
