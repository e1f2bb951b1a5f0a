package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kmohsen11/Argos/internal/entity"
)

type errorResponse struct {
	Error   string                  `json:"error"`
	Message string                  `json:"message,omitempty"`
	Field   entity.Field            `json:"field,omitempty"`
	FormID  string                  `json:"formId,omitempty"`
	State   *entity.SubmissionState `json:"state,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "status", status, "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}
