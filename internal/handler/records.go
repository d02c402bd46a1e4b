package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

type saveRecordResponse struct {
	Message string              `json:"message"`
	Record  domain.TravelRecord `json:"record"`
}

// SaveRecord handles POST /api/save-data.
// The write guards have already run by the time this is reached. An empty
// body is treated as an empty object, so it fails with "Missing required
// fields" like any other incomplete payload.
func (s *Server) SaveRecord(w http.ResponseWriter, r *http.Request) {
	var in domain.NewTravelRecord
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	created, err := s.records.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		s.log.ErrorContext(r.Context(), "save record failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}

	writeJSON(w, http.StatusCreated, saveRecordResponse{
		Message: "Data saved successfully",
		Record:  created,
	})
}

// ListRecords handles GET /api/records.
// Records are returned newest first; an empty store yields [].
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.List(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "list records failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	if records == nil {
		records = []domain.TravelRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
