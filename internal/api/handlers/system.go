package handlers

import (
	"net/http"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// Version handles GET requests to retrieve version information.
// Returns the application version, the schema version and whether
// migrations are pending.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	info, err := h.systemService.GetVersionInfo(r.Context())
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToGetVersionInfo.Error())
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// Migrations lists every embedded migration and whether it is applied.
//
// Endpoint: GET /api/system/migrations
func (h *SystemHandler) Migrations(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.systemService.GetMigrationStatus(r.Context())
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToGetVersionInfo.Error())
		return
	}
	respondJSON(w, http.StatusOK, statuses)
}
