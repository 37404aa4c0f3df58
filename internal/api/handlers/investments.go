package handlers

import (
	"net/http"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// InvestmentHandler handles the investment ledger.
type InvestmentHandler struct {
	investmentService *service.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// Investments lists the ledger oldest first, optionally for one fund.
//
// Endpoint: GET /api/investments?fundId=
func (h *InvestmentHandler) Investments(w http.ResponseWriter, r *http.Request) {
	fundID, ok := queryFundID(w, r)
	if !ok {
		return
	}

	investments, err := h.investmentService.GetInvestments(r.Context(), fundID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveInvestment.Error())
		return
	}
	respondJSON(w, http.StatusOK, investments)
}

// CreateInvestment records an investment and bumps the fund's deployed capital.
//
// Endpoint: POST /api/investments
// Response: 201 Created with model.Investment
// Error: 400 when the amount exceeds the fund's remaining capacity,
// 422 when fundId or companyId does not resolve
func (h *InvestmentHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req request.CreateInvestmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ins, err := validation.ValidateCreateInvestment(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to record investment")
		return
	}

	investment, err := h.investmentService.RecordInvestment(r.Context(), ins)
	if err != nil {
		respondServiceError(w, r, err, "failed to record investment")
		return
	}
	respondJSON(w, http.StatusCreated, investment)
}
