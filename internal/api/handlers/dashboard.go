package handlers

import (
	"net/http"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
)

// DashboardHandler serves the combined dashboard payload.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardSummary returns the fund, its recent activities, its companies and
// the latest snapshot. Either every part is returned or none.
//
// Endpoint: GET /api/dashboard-summary/{id}
// Response: 200 OK with model.DashboardSummary
// Error: 404 Not Found for an unknown fund
func (h *DashboardHandler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	summary, err := h.dashboardService.GetDashboardSummary(r.Context(), fundID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToGetDashboard.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
