package handlers_test

import (
	"encoding/json"
	"fmt"
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

func TestActivityHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewActivityHandler(testutil.NewTestServices(t, db).Activity)
	fund := testutil.NewFund().Build(t, db)
	for day := 1; day <= 5; day++ {
		testutil.NewActivity(fund.ID).WithTitle(fmt.Sprintf("Day %d", day)).On(testutil.Day(2024, time.April, day)).Build(t, db)
	}

	list := func(query map[string]string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.Activities(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/activities", query))
		return w
	}

	t.Run("newest first with limit", func(t *testing.T) {
		w := list(map[string]string{"fundId": fmt.Sprint(fund.ID), "limit": "2"})
		require.Equal(t, http.StatusOK, w.Code)

		var activities []model.Activity
		require.NoError(t, json.NewDecoder(w.Body).Decode(&activities))
		require.Len(t, activities, 2)
		assert.Equal(t, "Day 5", activities[0].Title)
		assert.Equal(t, "Day 4", activities[1].Title)
	})

	t.Run("rejects bad filters", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, list(map[string]string{"type": "dividend"}).Code)
		assert.Equal(t, http.StatusBadRequest, list(map[string]string{"limit": "0"}).Code)
	})

	t.Run("posts milestone", func(t *testing.T) {
		body := fmt.Sprintf(`{"fundId":%d,"type":"milestone","title":"First close","activityDate":"2024-04-10"}`, fund.ID)
		w := httptest.NewRecorder()
		handler.CreateActivity(w, testutil.NewJSONRequest(http.MethodPost, "/api/activities", body, nil))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = list(map[string]string{"fundId": fmt.Sprint(fund.ID), "limit": "1"})
		var activities []model.Activity
		require.NoError(t, json.NewDecoder(w.Body).Decode(&activities))
		require.Len(t, activities, 1)
		assert.Equal(t, "First close", activities[0].Title)
	})

	// WHY: exit and investment entries carry ledger amounts. Posting an exit
	// directly would count its amount as a distribution while the company
	// stays active and marked, doubling its value in TVPI.
	t.Run("rejects ledger activity types", func(t *testing.T) {
		company := testutil.NewCompany(fund.ID).WithValuation("1000000").Build(t, db)
		before := testutil.CountRows(t, db, "activities")

		for _, typ := range []string{"exit", "investment"} {
			body := fmt.Sprintf(`{"fundId":%d,"companyId":%d,"type":%q,"title":"Sold","amount":"1000000"}`,
				fund.ID, company.ID, typ)
			w := httptest.NewRecorder()
			handler.CreateActivity(w, testutil.NewJSONRequest(http.MethodPost, "/api/activities", body, nil))

			require.Equal(t, http.StatusBadRequest, w.Code, typ)
			assert.Equal(t, "invalid type: "+typ, decodeError(t, w).Details["type"])
		}
		testutil.AssertRowCount(t, db, "activities", before)
	})

	t.Run("unknown fund filter is 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, list(map[string]string{"fundId": "999"}).Code)
	})

	t.Run("unknown fund is 422", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateActivity(w, testutil.NewJSONRequest(http.MethodPost, "/",
			`{"fundId":999,"type":"milestone","title":"Lost"}`, nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
