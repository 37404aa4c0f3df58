package request

type CreateInvestmentRequest struct {
	FundID                Number `json:"fundId"`
	CompanyID             Number `json:"companyId"`
	InvestmentDate        string `json:"investmentDate"`
	Amount                Number `json:"amount"`
	Round                 string `json:"round"`
	OwnershipPercentage   Number `json:"ownershipPercentage"`
	ValuationAtInvestment Number `json:"valuationAtInvestment"`
}
