package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/pkordes/tripboard/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{"section", "day", "title", "detail", "start", "end", "amount"}

// Export formats accepted by GET /export?format=.
const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// GetExport handles GET /export.
// It returns every collection flattened into one table.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format, err := optionalQuery(r.URL.Query(), "format", formatJSON)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if format != formatJSON && format != formatCSV {
		badRequest(w, "format must be json or csv")
		return
	}

	rows, err := s.svc.Export.Export(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "export", err)
		return
	}

	if format == formatCSV {
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="trip.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// buildCSV encodes rows as CSV with a header line.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(exportRowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

func exportRowToCSVRecord(r domain.ExportRow) []string {
	return []string{r.Section, r.Day, r.Title, r.Detail, r.Start, r.End, r.Amount}
}
