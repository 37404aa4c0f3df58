package request

type CreateFundRequest struct {
	Name            string `json:"name"`
	Size            Number `json:"size"`
	DeployedCapital Number `json:"deployedCapital"`
	ManagementFee   Number `json:"managementFee"`
	CarryPercentage Number `json:"carryPercentage"`
	VintageYear     Number `json:"vintageYear"`
	Status          string `json:"status"`
}

type UpdateFundRequest struct {
	Name            *string `json:"name,omitempty"`
	Size            Number  `json:"size"`
	ManagementFee   Number  `json:"managementFee"`
	CarryPercentage Number  `json:"carryPercentage"`
	Status          *string `json:"status,omitempty"`
}

// CreateSnapshotRequest records a metrics snapshot. When TotalValue is
// supplied the values are taken as given, otherwise they are computed from
// the ledgers as of MetricDate.
type CreateSnapshotRequest struct {
	MetricDate string `json:"metricDate"`
	TotalValue Number `json:"totalValue"`
	IRR        Number `json:"irr"`
	Multiple   Number `json:"multiple"`
	DPI        Number `json:"dpi"`
	TVPI       Number `json:"tvpi"`
}

type GenerateReportRequest struct {
	Template string `json:"template"`
	Period   string `json:"period"`
	Format   string `json:"format"`
	Notes    string `json:"notes"`
}
