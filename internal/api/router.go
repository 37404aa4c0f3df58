package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/updawg/Fund-Manager-Backend/internal/api/handlers"
	custommiddleware "github.com/updawg/Fund-Manager-Backend/internal/api/middleware"
	"github.com/updawg/Fund-Manager-Backend/internal/config"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
)

// Services are the dependencies of the HTTP API.
type Services struct {
	Fund       *service.FundService
	Portfolio  *service.PortfolioService
	Investment *service.InvestmentService
	Activity   *service.ActivityService
	Metrics    *service.MetricsService
	Dashboard  *service.DashboardService
	Report     *service.ReportService
	User       *service.UserService
	System     *service.SystemService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svcs Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// write guards mutating routes when authentication is required.
	write := func(r chi.Router) chi.Router {
		if cfg.Auth.Required {
			return r.With(custommiddleware.RequireAuth(svcs.User))
		}
		return r
	}

	systemHandler := handlers.NewSystemHandler(svcs.System)
	authHandler := handlers.NewAuthHandler(svcs.User)
	fundHandler := handlers.NewFundHandler(svcs.Fund)
	metricsHandler := handlers.NewMetricsHandler(svcs.Metrics)
	reportHandler := handlers.NewReportHandler(svcs.Report)
	dashboardHandler := handlers.NewDashboardHandler(svcs.Dashboard)
	companyHandler := handlers.NewCompanyHandler(svcs.Portfolio)
	investmentHandler := handlers.NewInvestmentHandler(svcs.Investment)
	activityHandler := handlers.NewActivityHandler(svcs.Activity)

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Get("/migrations", systemHandler.Migrations)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/funds", func(r chi.Router) {
			r.Get("/", fundHandler.Funds)
			write(r).Post("/", fundHandler.CreateFund)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateIDMiddleware)
				r.Get("/", fundHandler.Fund)
				write(r).Patch("/", fundHandler.UpdateFund)

				r.Get("/metrics", metricsHandler.FundMetrics)
				r.Get("/metrics/snapshots", metricsHandler.Snapshots)
				write(r).Post("/metrics/snapshots", metricsHandler.CreateSnapshot)
				r.Get("/allocation", metricsHandler.Allocation)
				r.Get("/cohorts", metricsHandler.Cohorts)

				r.Get("/deployed-capital", fundHandler.DeployedCapital)
				write(r).Post("/deployed-capital/reconcile", fundHandler.ReconcileDeployedCapital)

				write(r).Post("/reports", reportHandler.GenerateReport)
			})
		})

		r.With(custommiddleware.ValidateIDMiddleware).Get("/dashboard-summary/{id}", dashboardHandler.DashboardSummary)

		r.Route("/portfolio-companies", func(r chi.Router) {
			r.Get("/", companyHandler.Companies)
			write(r).Post("/", companyHandler.CreateCompany)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateIDMiddleware)
				r.Get("/", companyHandler.Company)
				write(r).Patch("/valuation", companyHandler.UpdateValuation)
				write(r).Post("/exit", companyHandler.Exit)
				write(r).Post("/write-off", companyHandler.WriteOff)
			})
		})

		r.Route("/investments", func(r chi.Router) {
			r.Get("/", investmentHandler.Investments)
			write(r).Post("/", investmentHandler.CreateInvestment)
		})

		r.Route("/activities", func(r chi.Router) {
			r.Get("/", activityHandler.Activities)
			write(r).Post("/", activityHandler.CreateActivity)
		})

		r.Get("/reports/templates", reportHandler.Templates)
	})

	return r
}
