package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/rs/zerolog"

	"github.com/updawg/Fund-Manager-Backend/internal/repository"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
)

// TestBcryptCost keeps password hashing fast in tests.
const TestBcryptCost = 4

// Services bundles every service wired to one database, the way the server
// wires them.
type Services struct {
	DB         *sql.DB
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

// NewTestServices wires all services against db.
func NewTestServices(t *testing.T, db *sql.DB) *Services {
	t.Helper()

	fundRepo := repository.NewFundRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)
	loader := service.NewLedgerLoader(companyRepo, investmentRepo, activityRepo)

	return &Services{
		DB:         db,
		Fund:       service.NewFundService(db, fundRepo, investmentRepo),
		Portfolio:  service.NewPortfolioService(db, fundRepo, companyRepo, activityRepo),
		Investment: service.NewInvestmentService(db, fundRepo, companyRepo, investmentRepo, activityRepo),
		Activity:   service.NewActivityService(db, fundRepo, companyRepo, activityRepo),
		Metrics:    service.NewMetricsService(db, fundRepo, metricsRepo, loader, 2, zerolog.Nop()),
		Dashboard:  service.NewDashboardService(db, fundRepo, companyRepo, activityRepo, metricsRepo),
		Report:     service.NewReportService(db, fundRepo, activityRepo, metricsRepo, loader, "USD"),
		User:       NewTestUserService(t, db),
		System:     service.NewSystemService(db),
	}
}

func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()
	return NewTestServices(t, db).Fund
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()
	return NewTestServices(t, db).Portfolio
}

func NewTestInvestmentService(t *testing.T, db *sql.DB) *service.InvestmentService {
	t.Helper()
	return NewTestServices(t, db).Investment
}

func NewTestMetricsService(t *testing.T, db *sql.DB) *service.MetricsService {
	t.Helper()
	return NewTestServices(t, db).Metrics
}

func NewTestDashboardService(t *testing.T, db *sql.DB) *service.DashboardService {
	t.Helper()
	return NewTestServices(t, db).Dashboard
}

func NewTestReportService(t *testing.T, db *sql.DB) *service.ReportService {
	t.Helper()
	return NewTestServices(t, db).Report
}

// NewTestUserService creates a UserService with a fresh key and a one hour TTL.
func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate session key: %v", err)
	}
	return service.NewUserService(repository.NewUserRepository(db), &key, time.Hour, TestBcryptCost)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// MakeFundName generates a unique fund name for testing.
//
// Example usage:
//
//	name := testutil.MakeFundName("Seed Fund")
//	// Returns: "Seed Fund XYZ789"
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeCompanyName generates a unique portfolio company name for testing.
func MakeCompanyName(base string) string {
	if base == "" {
		base = "Company"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
