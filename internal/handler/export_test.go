package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/handler"
)

func exportFixture() []domain.ExportRow {
	return []domain.ExportRow{
		{Section: "stay", Title: "Casa Velha", Detail: "Funchal", Start: "2026-06-23", End: "2026-06-27"},
		{Section: "budget", Title: "Hotel: Casa Velha", Amount: "120.00"},
		{Section: "total", Title: "Total", Amount: "120.00"},
	}
}

func newExportHandler() http.Handler {
	svc := &mockExportServicer{
		export: func(context.Context) ([]domain.ExportRow, error) { return exportFixture(), nil },
	}
	return newHTTPHandler(handler.Services{Export: svc})
}

// ---- GET /export -----------------------------------------------------------

func TestGetExport_JSONDefault(t *testing.T) {
	rec := do(t, newExportHandler(), http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rows []domain.ExportRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	assert.Equal(t, exportFixture(), rows)
}

func TestGetExport_CSV(t *testing.T) {
	rec := do(t, newExportHandler(), http.MethodGet, "/export?format=csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trip.csv")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"section", "day", "title", "detail", "start", "end", "amount"}, records[0])
	assert.Equal(t, []string{"budget", "", "Hotel: Casa Velha", "", "", "", "120.00"}, records[2])
}

func TestGetExport_UnknownFormat(t *testing.T) {
	rec := do(t, newExportHandler(), http.MethodGet, "/export?format=xlsx", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
