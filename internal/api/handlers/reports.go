package handlers

import (
	"fmt"
	"net/http"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/api/response"
	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// ReportHandler lists report templates and generates reports.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Templates lists the available report templates.
//
// Endpoint: GET /api/reports/templates
func (h *ReportHandler) Templates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reportService.Templates())
}

// GenerateReport builds a report for a fund and returns it in the requested
// format. Non-JSON formats are sent as attachments.
//
// Endpoint: POST /api/funds/{id}/reports
// Body: {"template": "quarterly", "period": "q1-2024", "format": "csv"}
// Error: 400 for a bad period or format, 404 for an unknown fund or template
func (h *ReportHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.GenerateReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req, err := validation.ValidateGenerateReport(req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToGenerateReport.Error())
		return
	}

	report, err := h.reportService.Generate(r.Context(), fundID, service.ReportOptions{
		Template: req.Template,
		Period:   req.Period,
		Notes:    req.Notes,
	})
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToGenerateReport.Error())
		return
	}

	body, contentType, err := report.Render(req.Format)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToGenerateReport.Error())
		return
	}

	if req.Format != service.ReportFormatJSON {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(req.Format)))
	}
	response.RespondBytes(w, http.StatusOK, contentType, body)
}
