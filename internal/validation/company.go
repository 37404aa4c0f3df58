package validation

import (
	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// ValidCompanyStatus contains the allowed portfolio company status values.
var ValidCompanyStatus = map[string]bool{
	model.CompanyStatusActive: true, model.CompanyStatusExited: true, model.CompanyStatusWrittenOff: true,
}

// ValidateCreatePortfolioCompany validates a portfolio company creation request.
// fundId must be a positive integer; its existence is checked when the
// company is persisted.
func ValidateCreatePortfolioCompany(req request.CreatePortfolioCompanyRequest) (model.PortfolioCompanyInsert, error) {
	errs := make(map[string]string)

	fundID := reference(errs, "fundId", req.FundID, true)
	name := requiredString(errs, "name", req.Name, 100)
	sector := requiredString(errs, "sector", req.Sector, 50)
	stage := requiredString(errs, "stage", req.Stage, 50)
	amount := money(errs, "investmentAmount", req.InvestmentAmount, true, false)
	valuation := money(errs, "currentValuation", req.CurrentValuation, false, false)
	founded := year(errs, "foundedYear", req.FoundedYear, false)
	status := enum(errs, "status", req.Status, model.CompanyStatusActive, ValidCompanyStatus)
	description := optionalString(errs, "description", req.Description, 2000)

	if err := result(errs); err != nil {
		return model.PortfolioCompanyInsert{}, err
	}

	return model.PortfolioCompanyInsert{
		FundID:           *fundID,
		Name:             name,
		Sector:           sector,
		Stage:            stage,
		InvestmentAmount: *amount,
		CurrentValuation: valuation,
		FoundedYear:      founded,
		Status:           status,
		Description:      description,
	}, nil
}

// ValidateUpdateValuation validates a new mark for a portfolio company.
// A zero Date means the valuation applies today.
func ValidateUpdateValuation(req request.UpdateValuationRequest) (model.ValuationUpdate, error) {
	errs := make(map[string]string)

	valuation := money(errs, "currentValuation", req.CurrentValuation, true, false)
	d := date(errs, "date", req.Date, false)
	note := optionalString(errs, "note", req.Note, 500)

	if err := result(errs); err != nil {
		return model.ValuationUpdate{}, err
	}
	return model.ValuationUpdate{CurrentValuation: *valuation, Date: d, Note: note}, nil
}

// ValidateExit validates the proceeds of a company exit.
func ValidateExit(req request.ExitRequest) (model.Exit, error) {
	errs := make(map[string]string)

	proceeds := money(errs, "proceeds", req.Proceeds, true, false)
	d := date(errs, "date", req.Date, false)
	note := optionalString(errs, "note", req.Note, 500)

	if err := result(errs); err != nil {
		return model.Exit{}, err
	}
	return model.Exit{Proceeds: *proceeds, Date: d, Note: note}, nil
}

// ValidateWriteOff validates a write-off. It is an exit with no proceeds.
func ValidateWriteOff(req request.WriteOffRequest) (model.Exit, error) {
	errs := make(map[string]string)

	d := date(errs, "date", req.Date, false)
	note := optionalString(errs, "note", req.Note, 500)

	if err := result(errs); err != nil {
		return model.Exit{}, err
	}
	return model.Exit{Date: d, Note: note}, nil
}
