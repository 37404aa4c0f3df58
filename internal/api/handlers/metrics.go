package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/api/response"
	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/metrics"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// MetricsHandler serves derived fund metrics and persisted snapshots.
type MetricsHandler struct {
	metricsService *service.MetricsService
	now            func() time.Time
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metricsService *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, now: time.Now}
}

// FundMetrics computes a fund's performance as of a point in time. A bare
// asOf date covers the whole day; it defaults to now.
//
// When the IRR solver does not converge the response is still 200 with
// irr null and irrUnavailable set.
//
// Endpoint: GET /api/funds/{id}/metrics?asOf=
// Response: 200 OK with metrics.Performance
func (h *MetricsHandler) FundMetrics(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	asOf, err := queryTime(r, "asOf", true)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToComputeMetrics.Error())
		return
	}
	if asOf.IsZero() {
		asOf = h.now()
	}

	perf, err := h.metricsService.ComputeFundMetrics(r.Context(), fundID, asOf)
	if err != nil && !errors.Is(err, apperrors.ErrNonConvergence) {
		respondServiceError(w, r, err, apperrors.ErrFailedToComputeMetrics.Error())
		return
	}
	respondJSON(w, http.StatusOK, perf)
}

// Allocation breaks a fund's invested amounts down by sector or stage.
//
// Endpoint: GET /api/funds/{id}/allocation?by=sector|stage
func (h *MetricsHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	by := strings.ToLower(r.URL.Query().Get("by"))
	switch by {
	case "":
		by = metrics.AllocationBySector
	case metrics.AllocationBySector, metrics.AllocationByStage:
	default:
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"by": "by must be sector or stage"})
		return
	}

	slices, err := h.metricsService.ComputeAllocationBreakdown(r.Context(), fundID, by)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToComputeMetrics.Error())
		return
	}
	if slices == nil {
		slices = []metrics.AllocationSlice{}
	}
	respondJSON(w, http.StatusOK, slices)
}

// Cohorts groups a fund's companies and reports each group's performance.
//
// Endpoint: GET /api/funds/{id}/cohorts?by=investment-year|founded-year|round&asOf=
func (h *MetricsHandler) Cohorts(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	by := strings.ToLower(r.URL.Query().Get("by"))
	switch by {
	case "":
		by = metrics.CohortByInvestmentYear
	case metrics.CohortByInvestmentYear, metrics.CohortByFoundedYear, metrics.CohortByRound:
	default:
		response.RespondError(w, http.StatusBadRequest, "validation failed",
			map[string]string{"by": "by must be investment-year, founded-year or round"})
		return
	}

	asOf, err := queryTime(r, "asOf", true)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToComputeMetrics.Error())
		return
	}
	if asOf.IsZero() {
		asOf = h.now()
	}

	cohorts, err := h.metricsService.ComputeCohorts(r.Context(), fundID, by, asOf)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToComputeMetrics.Error())
		return
	}
	if cohorts == nil {
		cohorts = []metrics.Cohort{}
	}
	respondJSON(w, http.StatusOK, cohorts)
}

// Snapshots lists a fund's stored snapshots, oldest first.
//
// Endpoint: GET /api/funds/{id}/metrics/snapshots?from=&to=
func (h *MetricsHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	from, err := queryTime(r, "from", false)
	if err != nil {
		respondServiceError(w, r, err, "failed to retrieve snapshots")
		return
	}
	to, err := queryTime(r, "to", false)
	if err != nil {
		respondServiceError(w, r, err, "failed to retrieve snapshots")
		return
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"from": "from must not be after to"})
		return
	}

	snapshots, err := h.metricsService.GetSnapshots(r.Context(), fundID, from, to)
	if err != nil {
		respondServiceError(w, r, err, "failed to retrieve snapshots")
		return
	}
	respondJSON(w, http.StatusOK, snapshots)
}

// CreateSnapshot records a snapshot. With totalValue in the body the values
// are stored as given; otherwise they are computed from the ledgers as of the
// end of metricDate (today when omitted). An empty body is allowed.
//
// Endpoint: POST /api/funds/{id}/metrics/snapshots
// Response: 201 Created with model.FundMetrics
// Error: 409 Conflict when the day already has a snapshot
func (h *MetricsHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.CreateSnapshotRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if !req.TotalValue.Empty() {
		ins, err := validation.ValidateCreateSnapshot(fundID, req)
		if err != nil {
			respondServiceError(w, r, err, "failed to record snapshot")
			return
		}
		snapshot, err := h.metricsService.RecordManualSnapshot(r.Context(), ins)
		if err != nil {
			respondServiceError(w, r, err, "failed to record snapshot")
			return
		}
		respondJSON(w, http.StatusCreated, snapshot)
		return
	}

	date := h.now()
	if strings.TrimSpace(req.MetricDate) != "" {
		parsed, err := validation.ParseTime(strings.TrimSpace(req.MetricDate))
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "validation failed",
				map[string]string{"metricDate": "metricDate must be a date (YYYY-MM-DD or RFC3339)"})
			return
		}
		date = parsed
	}

	snapshot, err := h.metricsService.RecordSnapshot(r.Context(), fundID, date)
	if err != nil {
		respondServiceError(w, r, err, "failed to record snapshot")
		return
	}
	respondJSON(w, http.StatusCreated, snapshot)
}
