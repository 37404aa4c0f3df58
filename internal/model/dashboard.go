package model

// DashboardSummary is everything a fund dashboard needs in one payload.
// It is either complete or not returned at all.
type DashboardSummary struct {
	Fund               Fund               `json:"fund"`
	RecentActivities   []Activity         `json:"recentActivities"`
	PortfolioCompanies []PortfolioCompany `json:"portfolioCompanies"`
	LatestMetrics      *FundMetrics       `json:"latestMetrics"`
}
