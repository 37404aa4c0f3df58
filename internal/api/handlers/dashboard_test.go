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
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/testutil"
)

// TestDashboardHandler_DashboardSummary tests GET /api/dashboard-summary/{id}.
//
// WHY: The dashboard renders all of its panels from this one payload. An
// unknown fund must produce a 404, never a half-filled summary.
func TestDashboardHandler_DashboardSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewDashboardHandler(testutil.NewTestDashboardService(t, db))
	fund := testutil.NewFund().Build(t, db)
	testutil.NewCompany(fund.ID).Build(t, db)
	testutil.NewActivity(fund.ID).Build(t, db)
	testutil.NewSnapshot(fund.ID).On(testutil.Day(2024, time.March, 31)).WithTotalValue("12000000").Build(t, db)

	t.Run("returns every part", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.DashboardSummary(w, testutil.NewRequestWithURLParams(http.MethodGet, "/", idParam(fund.ID)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var summary model.DashboardSummary
		require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
		assert.Equal(t, fund.ID, summary.Fund.ID)
		assert.Len(t, summary.PortfolioCompanies, 1)
		assert.Len(t, summary.RecentActivities, 1)
		require.NotNil(t, summary.LatestMetrics)
		assert.True(t, summary.LatestMetrics.TotalValue.Equal(testutil.Dec("12000000")))
	})

	t.Run("unknown fund is 404 with no payload", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.DashboardSummary(w, testutil.NewRequestWithURLParams(http.MethodGet, "/", idParam(999)))
		require.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.NotContains(t, body, "fund")
	})
}
