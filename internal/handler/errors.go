package handler

import (
	"encoding/json"
	"net/http"
)

// Fixed client-facing messages. Internal error detail is logged, never returned.
const (
	msgInvalidBody   = "Invalid request body"
	msgBodyTooLarge  = "Request body too large"
	msgMissingFields = "Missing required fields"
	msgSaveFailed    = "Failed to save data"
	msgServerError   = "Server Error"
)

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
