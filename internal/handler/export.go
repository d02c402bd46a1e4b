// export.go implements GET /api/records/export.
// Returns every record as a flat table, newest first.
// Supports ?format=csv (CSV) or default (JSON).

package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "country", "capital", "population", "temperature",
	"weather_description", "capital_details", "stored_at",
}

// ExportRecords handles GET /api/records/export.
func (s *Server) ExportRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.List(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "export records failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	if records == nil {
		records = []domain.TravelRecord{}
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, records)
	case "csv":
		body, err := buildCSV(records)
		if err != nil {
			s.log.ErrorContext(r.Context(), "encode csv export failed", "error", err)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="travel-records.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	default:
		writeError(w, http.StatusBadRequest, "Unsupported format: "+format)
	}
}

// buildCSV encodes records as CSV. Capital details are embedded as a JSON
// string so every record stays on a single CSV line.
func buildCSV(records []domain.TravelRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeaders); err != nil {
		return nil, err
	}
	for _, rec := range records {
		row, err := recordToCSVRow(rec)
		if err != nil {
			return nil, err
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func recordToCSVRow(r domain.TravelRecord) ([]string, error) {
	var details string
	if r.CapitalDetails != nil {
		var buf bytes.Buffer
		if err := json.Compact(&buf, r.CapitalDetails); err != nil {
			return nil, err
		}
		details = buf.String()
	}
	return []string{
		r.ID.String(),
		r.Country,
		r.Capital,
		formatNullable(r.Population),
		formatNullable(r.Temperature),
		r.WeatherDescription,
		details,
		r.StoredAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

// formatNullable leaves the cell empty for a null measurement.
func formatNullable(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
