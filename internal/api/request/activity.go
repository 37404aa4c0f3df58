package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

type CreateActivityRequest struct {
	FundID       Number `json:"fundId"`
	CompanyID    Number `json:"companyId"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Amount       Number `json:"amount"`
	ActivityDate string `json:"activityDate"`
}

// Activity listing limits.
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500
)

var validActivityTypes = map[string]bool{
	model.ActivityTypeInvestment: true,
	model.ActivityTypeExit:       true,
	model.ActivityTypeUpdate:     true,
	model.ActivityTypeMilestone:  true,
}

// ParseActivityFilters extracts and validates activity filters from query parameters.
// All parameters are optional.
//
// Validation rules:
//   - fundId: positive integer
//   - type: investment, exit, update or milestone
//   - from/to: YYYY-MM-DD or RFC3339, from not after to
//   - limit: between 1 and 500 (defaults to 50)
func ParseActivityFilters(fundIDParam, typeParam, fromParam, toParam, limitParam string) (*model.ActivityFilter, error) {
	filters := &model.ActivityFilter{Limit: DefaultActivityLimit}

	if fundIDParam != "" {
		id, err := strconv.ParseInt(fundIDParam, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid fundId: must be a positive integer")
		}
		filters.FundID = &id
	}

	if typeParam != "" {
		t := strings.ToLower(strings.TrimSpace(typeParam))
		if !validActivityTypes[t] {
			return nil, fmt.Errorf("invalid type: %s", typeParam)
		}
		filters.Type = t
	}

	if fromParam != "" {
		from, err := parseFilterTime(fromParam)
		if err != nil {
			return nil, fmt.Errorf("invalid from format: %w", err)
		}
		filters.From = from
	}

	if toParam != "" {
		to, err := parseFilterTime(toParam)
		if err != nil {
			return nil, fmt.Errorf("invalid to format: %w", err)
		}
		filters.To = to
	}

	if !filters.From.IsZero() && !filters.To.IsZero() && filters.From.After(filters.To) {
		return nil, fmt.Errorf("invalid date range: from must not be after to")
	}

	if limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: must be a number")
		}
		if limit < 1 || limit > MaxActivityLimit {
			return nil, fmt.Errorf("invalid limit: must be between 1 and %d", MaxActivityLimit)
		}
		filters.Limit = limit
	}

	return filters, nil
}

// parseFilterTime accepts YYYY-MM-DD and RFC3339.
func parseFilterTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
