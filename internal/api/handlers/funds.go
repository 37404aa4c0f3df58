package handlers

import (
	"net/http"
	"strings"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/api/response"
	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// FundHandler handles HTTP requests for fund endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the fundService.
type FundHandler struct {
	fundService *service.FundService
}

// NewFundHandler creates a new FundHandler with the provided service dependency.
func NewFundHandler(fundService *service.FundService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
	}
}

// Funds handles GET requests to retrieve all funds.
//
// Endpoint: GET /api/funds?status=
// Response: 200 OK with array of model.Fund
// Error: 400 for an unknown status filter, 500 if retrieval fails
func (h *FundHandler) Funds(w http.ResponseWriter, r *http.Request) {
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !validation.ValidFundStatus[status] {
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"status": "invalid status: " + status})
		return
	}

	funds, err := h.fundService.GetFunds(r.Context(), status)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveFunds.Error())
		return
	}
	respondJSON(w, http.StatusOK, funds)
}

// CreateFund handles POST requests to create a fund.
//
// Endpoint: POST /api/funds
// Response: 201 Created with model.Fund
// Error: 400 with a field map when validation fails
func (h *FundHandler) CreateFund(w http.ResponseWriter, r *http.Request) {
	var req request.CreateFundRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ins, err := validation.ValidateCreateFund(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to create fund")
		return
	}

	fund, err := h.fundService.CreateFund(r.Context(), ins)
	if err != nil {
		respondServiceError(w, r, err, "failed to create fund")
		return
	}
	respondJSON(w, http.StatusCreated, fund)
}

// Fund handles GET requests to retrieve a single fund.
//
// Endpoint: GET /api/funds/{id}
// Response: 200 OK with model.Fund
// Error: 404 Not Found for an unknown fund
func (h *FundHandler) Fund(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	fund, err := h.fundService.GetFund(r.Context(), fundID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveFund.Error())
		return
	}
	respondJSON(w, http.StatusOK, fund)
}

// UpdateFund handles PATCH requests. Only the supplied fields change;
// shrinking the size below the deployed capital is rejected.
//
// Endpoint: PATCH /api/funds/{id}
// Response: 200 OK with the updated model.Fund
func (h *FundHandler) UpdateFund(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.UpdateFundRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	upd, err := validation.ValidateUpdateFund(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to update fund")
		return
	}

	fund, err := h.fundService.UpdateFund(r.Context(), fundID, upd)
	if err != nil {
		respondServiceError(w, r, err, "failed to update fund")
		return
	}
	respondJSON(w, http.StatusOK, fund)
}

// DeployedCapital compares the cached deployed capital with the ledger sum.
//
// Endpoint: GET /api/funds/{id}/deployed-capital
func (h *FundHandler) DeployedCapital(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	report, err := h.fundService.GetDeployedCapital(r.Context(), fundID)
	if err != nil {
		respondServiceError(w, r, err, "failed to check deployed capital")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// ReconcileDeployedCapital rewrites the cached deployed capital from the ledger.
//
// Endpoint: POST /api/funds/{id}/deployed-capital/reconcile
func (h *FundHandler) ReconcileDeployedCapital(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathID(w, r)
	if !ok {
		return
	}

	report, err := h.fundService.ReconcileDeployedCapital(r.Context(), fundID)
	if err != nil {
		respondServiceError(w, r, err, "failed to reconcile deployed capital")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
