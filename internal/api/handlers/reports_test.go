package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/api/handlers"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/testutil"
)

// TestReportHandler_GenerateReport tests POST /api/funds/{id}/reports.
//
// WHY: LP reports are downloaded and forwarded as files. The content type and
// file name must match the requested format.
func TestReportHandler_GenerateReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewReportHandler(testutil.NewTestReportService(t, db))
	fund := testutil.NewFund().WithName("Seed Fund I").Build(t, db)
	company := testutil.NewCompany(fund.ID).WithValuation("1500000").Build(t, db)
	testutil.NewInvestment(fund.ID, company.ID).On(testutil.Day(2024, time.February, 1)).Build(t, db)

	generate := func(body string, id int64) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.GenerateReport(w, testutil.NewJSONRequest(http.MethodPost, "/", body, idParam(id)))
		return w
	}

	t.Run("json by default", func(t *testing.T) {
		w := generate(`{"template":"quarterly","period":"q1-2024"}`, fund.ID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Empty(t, w.Header().Get("Content-Disposition"))

		var report map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
		assert.NotEmpty(t, report["id"])
	})

	t.Run("markdown attachment", func(t *testing.T) {
		w := generate(`{"template":"Quarterly","period":"Q1-2024","format":"markdown"}`, fund.ID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="quarterly-q1-2024.md"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "Seed Fund I")
	})

	t.Run("html", func(t *testing.T) {
		w := generate(`{"template":"portfolio","period":"2024","format":"html"}`, fund.ID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "<table>")
	})

	t.Run("bad period is 400", func(t *testing.T) {
		w := generate(`{"template":"quarterly","period":"q5-2024"}`, fund.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "period")
	})

	t.Run("bad format is 400", func(t *testing.T) {
		w := generate(`{"template":"quarterly","period":"q1-2024","format":"pdf"}`, fund.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "format")
	})

	t.Run("unknown template is 404", func(t *testing.T) {
		w := generate(`{"template":"weekly","period":"q1-2024"}`, fund.ID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown fund is 404", func(t *testing.T) {
		w := generate(`{"template":"quarterly","period":"q1-2024"}`, 999)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReportHandler_Templates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewReportHandler(testutil.NewTestReportService(t, db))

	w := httptest.NewRecorder()
	handler.Templates(w, httptest.NewRequest(http.MethodGet, "/api/reports/templates", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var templates []service.ReportTemplate
	require.NoError(t, json.NewDecoder(w.Body).Decode(&templates))
	ids := make([]string, len(templates))
	for i, tmpl := range templates {
		ids[i] = tmpl.ID
	}
	assert.Equal(t, []string{"quarterly", "annual", "monthly", "portfolio", "compliance"}, ids)
}
