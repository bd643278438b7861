// Package common holds the HTTP response envelope and request context
// helpers shared by every interface layer.
package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo carries error details for clients.
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends data in the standard envelope.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error envelope with the given code and message.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondAppError maps an application error onto the envelope. Errors
// that are not AppErrors become opaque 500s so internals never leak.
func RespondAppError(w http.ResponseWriter, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		response := APIResponse{
			Success: false,
			Error: &ErrorInfo{
				Code:    string(appErr.Type),
				Message: appErr.Message,
				Details: appErr.Details,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(response)
		return
	}
	RespondError(w, http.StatusInternalServerError, string(pkgerrors.ErrorTypeInternal), "internal server error")
}

// ParseJSONBody decodes a JSON request body with a size limit and
// rejects unknown fields.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
