package fetch_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/fetch"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/testutil"
)

func newAPI(t *testing.T, unavailable *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dashboard-summary/1", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(model.DashboardSummary{
			Fund:               model.Fund{ID: 1, Name: "Fund I", Size: testutil.Dec("50000000")},
			RecentActivities:   []model.Activity{},
			PortfolioCompanies: []model.PortfolioCompany{{ID: 7, FundID: 1, Name: "Acme"}},
		})
	})
	mux.HandleFunc("GET /api/dashboard-summary/2", func(w http.ResponseWriter, _ *http.Request) {
		unavailable.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
	})
	mux.HandleFunc("GET /api/dashboard-summary/3", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"fund not found"}`))
	})
	mux.HandleFunc("GET /api/activities", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]model.Activity{{ID: 1, FundID: 1, Title: r.URL.Query().Get("fundId")}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPLoader(t *testing.T) {
	ctx := context.Background()
	var unavailable atomic.Int32
	srv := newAPI(t, &unavailable)
	loader := fetch.NewHTTPLoader(srv.URL+"/", srv.Client())

	t.Run("decodes the dashboard summary", func(t *testing.T) {
		summary, err := loader.Dashboard(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Fund I", summary.Fund.Name)
		assert.True(t, summary.Fund.Size.Equal(testutil.Dec("50000000")))
		require.Len(t, summary.PortfolioCompanies, 1)
		assert.Equal(t, "Acme", summary.PortfolioCompanies[0].Name)
	})

	t.Run("5xx is transient", func(t *testing.T) {
		_, err := loader.Dashboard(ctx, 2)
		assert.ErrorIs(t, err, apperrors.ErrTransientFetch)

		var statusErr *fetch.HTTPStatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.Equal(t, "database unavailable", statusErr.Message)
	})

	t.Run("404 is not found and not transient", func(t *testing.T) {
		_, err := loader.Dashboard(ctx, 3)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NotErrorIs(t, err, apperrors.ErrTransientFetch)
	})

	t.Run("sends the bearer token", func(t *testing.T) {
		_, err := loader.Activities(ctx, 1)
		assert.Error(t, err)

		activities, err := loader.WithToken("secret").Activities(ctx, 1)
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "1", activities[0].Title)
	})

	t.Run("query over a failing api degrades", func(t *testing.T) {
		unavailable.Store(0)
		q := fetch.NewQuery(loader.Dashboard, fastRetry(1), zerolog.Nop())

		state := q.Fetch(ctx, fetch.FundKey(2))

		assert.True(t, state.Degraded)
		assert.Nil(t, state.Data)
		assert.EqualValues(t, 2, unavailable.Load())
	})
}

func TestHTTPLoader_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := fetch.NewHTTPLoader(url, nil).Dashboard(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrTransientFetch)
}
