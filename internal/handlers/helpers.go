package handlers

import (
	"encoding/json"
	"net/http"

	"mfadvisor-backend/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResp builds the {detail, code, request_id} error body. The chat
// widget reads only detail; code and request_id are for operators.
func errorResp(code, detail string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Detail:    detail,
		Code:      code,
		RequestID: r.Header.Get("X-Request-ID"),
	}
}
