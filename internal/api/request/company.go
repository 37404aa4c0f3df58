package request

type CreatePortfolioCompanyRequest struct {
	FundID           Number `json:"fundId"`
	Name             string `json:"name"`
	Sector           string `json:"sector"`
	Stage            string `json:"stage"`
	InvestmentAmount Number `json:"investmentAmount"`
	CurrentValuation Number `json:"currentValuation"`
	FoundedYear      Number `json:"foundedYear"`
	Status           string `json:"status"`
	Description      string `json:"description"`
}

type UpdateValuationRequest struct {
	CurrentValuation Number `json:"currentValuation"`
	Date             string `json:"date"`
	Note             string `json:"note"`
}

type ExitRequest struct {
	Proceeds Number `json:"proceeds"`
	Date     string `json:"date"`
	Note     string `json:"note"`
}

type WriteOffRequest struct {
	Date string `json:"date"`
	Note string `json:"note"`
}
