package handlers

import (
	"net/http"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// CompanyHandler handles portfolio company requests.
type CompanyHandler struct {
	portfolioService *service.PortfolioService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(portfolioService *service.PortfolioService) *CompanyHandler {
	return &CompanyHandler{portfolioService: portfolioService}
}

// Companies lists portfolio companies, optionally for one fund.
//
// Endpoint: GET /api/portfolio-companies?fundId=
// Response: 200 OK with array of model.PortfolioCompany
// Error: 404 Not Found when fundId names an unknown fund
func (h *CompanyHandler) Companies(w http.ResponseWriter, r *http.Request) {
	fundID, ok := queryFundID(w, r)
	if !ok {
		return
	}

	companies, err := h.portfolioService.GetCompanies(r.Context(), fundID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveCompanies.Error())
		return
	}
	respondJSON(w, http.StatusOK, companies)
}

// CreateCompany adds a company to a fund's portfolio.
//
// Endpoint: POST /api/portfolio-companies
// Response: 201 Created with model.PortfolioCompany
// Error: 422 when fundId does not resolve
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePortfolioCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ins, err := validation.ValidateCreatePortfolioCompany(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to create portfolio company")
		return
	}

	company, err := h.portfolioService.CreateCompany(r.Context(), ins)
	if err != nil {
		respondServiceError(w, r, err, "failed to create portfolio company")
		return
	}
	respondJSON(w, http.StatusCreated, company)
}

// Company retrieves one portfolio company.
//
// Endpoint: GET /api/portfolio-companies/{id}
func (h *CompanyHandler) Company(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathID(w, r)
	if !ok {
		return
	}

	company, err := h.portfolioService.GetCompany(r.Context(), companyID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveCompany.Error())
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// UpdateValuation marks an active company to a new valuation.
//
// Endpoint: PATCH /api/portfolio-companies/{id}/valuation
// Error: 409 Conflict when the company has exited or been written off
func (h *CompanyHandler) UpdateValuation(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.UpdateValuationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	upd, err := validation.ValidateUpdateValuation(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to update valuation")
		return
	}

	company, err := h.portfolioService.UpdateValuation(r.Context(), companyID, upd)
	if err != nil {
		respondServiceError(w, r, err, "failed to update valuation")
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// Exit records the sale of a company. The proceeds count as distributions.
//
// Endpoint: POST /api/portfolio-companies/{id}/exit
func (h *CompanyHandler) Exit(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.ExitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	exit, err := validation.ValidateExit(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to record exit")
		return
	}

	company, err := h.portfolioService.RecordExit(r.Context(), companyID, exit)
	if err != nil {
		respondServiceError(w, r, err, "failed to record exit")
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// WriteOff marks a company as written off with a zero valuation.
//
// Endpoint: POST /api/portfolio-companies/{id}/write-off
func (h *CompanyHandler) WriteOff(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.WriteOffRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	writeOff, err := validation.ValidateWriteOff(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to write off company")
		return
	}

	company, err := h.portfolioService.WriteOff(r.Context(), companyID, writeOff)
	if err != nil {
		respondServiceError(w, r, err, "failed to write off company")
		return
	}
	respondJSON(w, http.StatusOK, company)
}
