// Package apperrors defines the error taxonomy shared by the repository,
// service and API layers. Callers inspect errors with errors.Is / errors.As.
package apperrors

import (
	"errors"
	"fmt"
)

// Category errors. Every concrete error below matches exactly one of these
// through errors.Is, which is what the API layer uses to pick a status code.
var (
	// ErrNotFound indicates that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReferential indicates that a foreign key does not resolve to a parent row.
	ErrReferential = errors.New("referential integrity violation")

	// ErrNonConvergence indicates that a numerical solver exceeded its iteration budget.
	ErrNonConvergence = errors.New("solver did not converge")

	// ErrTransientFetch indicates that storage or the network was unavailable.
	// Only errors in this category are retried.
	ErrTransientFetch = errors.New("transient fetch failure")
)

// Domain entity errors represent missing entities in the system.
var (
	// ErrFundNotFound indicates that a fund with the given ID does not exist.
	ErrFundNotFound = fmt.Errorf("fund %w", ErrNotFound)

	// ErrCompanyNotFound indicates that a portfolio company with the given ID does not exist.
	ErrCompanyNotFound = fmt.Errorf("portfolio company %w", ErrNotFound)

	// ErrUserNotFound indicates that a user with the given username does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrTemplateNotFound indicates an unknown report template.
	ErrTemplateNotFound = fmt.Errorf("report template %w", ErrNotFound)
)

// Business logic errors represent constraint violations.
var (
	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken indicates a missing, malformed or expired session token.
	ErrInvalidToken = errors.New("invalid or expired session token")

	// ErrCompanyNotActive indicates an operation that requires an active company.
	ErrCompanyNotActive = errors.New("portfolio company is not active")
)

// Operation failure errors are used as user-facing messages by the handlers.
var (
	ErrFailedToRetrieveFunds      = errors.New("failed to retrieve funds")
	ErrFailedToRetrieveFund       = errors.New("failed to retrieve fund")
	ErrFailedToRetrieveCompanies  = errors.New("failed to retrieve portfolio companies")
	ErrFailedToRetrieveCompany    = errors.New("failed to retrieve portfolio company")
	ErrFailedToRetrieveActivities = errors.New("failed to retrieve activities")
	ErrFailedToRetrieveInvestment = errors.New("failed to retrieve investments")
	ErrFailedToComputeMetrics     = errors.New("failed to compute fund metrics")
	ErrFailedToGetDashboard       = errors.New("failed to get dashboard summary")
	ErrFailedToGenerateReport     = errors.New("failed to generate report")
	ErrFailedToGetVersionInfo     = errors.New("failed to get version information")
)

// ReferentialError reports a foreign key that does not resolve.
type ReferentialError struct {
	Field string // request field carrying the key, e.g. "companyId"
	Table string // parent table, e.g. "portfolio_companies"
	ID    int64
}

func (e *ReferentialError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s: referenced %s row does not exist", e.Field, e.Table)
	}
	return fmt.Sprintf("%s: %s %d does not exist", e.Field, e.Table, e.ID)
}

// Is makes every ReferentialError match ErrReferential.
func (e *ReferentialError) Is(target error) bool {
	return target == ErrReferential
}

// Transient wraps err so that it matches ErrTransientFetch while keeping the
// original error in the chain.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransientFetch, err)
}
