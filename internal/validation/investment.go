package validation

import (
	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// ValidateCreateInvestment validates an investment ledger entry.
//
// Required fields:
//   - fundId, companyId: positive integers
//   - investmentDate: YYYY-MM-DD or RFC3339
//   - amount: positive currency amount
//   - round: free text, at most 50 characters
//
// Optional fields:
//   - ownershipPercentage: fraction between 0 and 1
//   - valuationAtInvestment: currency amount
func ValidateCreateInvestment(req request.CreateInvestmentRequest) (model.InvestmentInsert, error) {
	errs := make(map[string]string)

	fundID := reference(errs, "fundId", req.FundID, true)
	companyID := reference(errs, "companyId", req.CompanyID, true)
	investmentDate := date(errs, "investmentDate", req.InvestmentDate, true)
	amount := money(errs, "amount", req.Amount, true, true)
	round := requiredString(errs, "round", req.Round, 50)
	ownership := fraction(errs, "ownershipPercentage", req.OwnershipPercentage, false)
	valuation := money(errs, "valuationAtInvestment", req.ValuationAtInvestment, false, false)

	if err := result(errs); err != nil {
		return model.InvestmentInsert{}, err
	}

	return model.InvestmentInsert{
		FundID:                *fundID,
		CompanyID:             *companyID,
		InvestmentDate:        investmentDate,
		Amount:                *amount,
		Round:                 round,
		OwnershipPercentage:   ownership,
		ValuationAtInvestment: valuation,
	}, nil
}
