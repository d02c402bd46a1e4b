package handler

import "net/http"

// GetConfig handles GET /api/config.
// It hands the third-party provider keys to the browser client. Keys that are
// not configured are omitted from the body.
func (s *Server) GetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.keys)
}
