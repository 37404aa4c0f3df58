package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
)

// Column limits for decimal storage.
const (
	MoneyScale         = 2
	MoneyIntegerDigits = 13
	FractionScale      = 4
	RatioScale         = 2
	RatioIntegerDigits = 3
	MinYear            = 1900
	MaxYear            = 2100
)

var (
	maxMoney = decimal.New(1, MoneyIntegerDigits)
	maxRatio = decimal.New(1, RatioIntegerDigits)
	one      = decimal.NewFromInt(1)
)

// requiredString trims s and records an error when it is blank or too long.
func requiredString(errs map[string]string, field, s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		errs[field] = field + " is required"
	} else if len(s) > maxLen {
		errs[field] = field + " must be " + strconv.Itoa(maxLen) + " characters or less"
	}
	return s
}

func optionalString(errs map[string]string, field, s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		errs[field] = field + " must be " + strconv.Itoa(maxLen) + " characters or less"
	}
	return s
}

// parseDecimal returns nil and records an error when the value is not a
// decimal number. Empty values are reported only when required.
func parseDecimal(errs map[string]string, field string, n request.Number, required bool) *decimal.Decimal {
	if n.Empty() {
		if required {
			errs[field] = field + " is required"
		}
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(n.Raw))
	if err != nil {
		errs[field] = field + " must be a decimal number"
		return nil
	}
	return &d
}

// money validates a currency amount: non-negative (or positive), at most two
// fraction digits and thirteen integer digits.
func money(errs map[string]string, field string, n request.Number, required, positive bool) *decimal.Decimal {
	d := parseDecimal(errs, field, n, required)
	if d == nil {
		return nil
	}
	switch {
	case positive && !d.IsPositive():
		errs[field] = field + " must be positive"
	case d.IsNegative():
		errs[field] = field + " must not be negative"
	case !d.Equal(d.Truncate(MoneyScale)):
		errs[field] = field + " must have at most 2 decimal places"
	case d.Abs().GreaterThanOrEqual(maxMoney):
		errs[field] = field + " must have at most 13 integer digits"
	default:
		return d
	}
	return nil
}

// fraction validates a percentage expressed as a fraction in [0, 1] with at
// most four fraction digits.
func fraction(errs map[string]string, field string, n request.Number, required bool) *decimal.Decimal {
	d := parseDecimal(errs, field, n, required)
	if d == nil {
		return nil
	}
	switch {
	case d.IsNegative() || d.GreaterThan(one):
		errs[field] = field + " must be a fraction between 0 and 1"
	case !d.Equal(d.Truncate(FractionScale)):
		errs[field] = field + " must have at most 4 decimal places"
	default:
		return d
	}
	return nil
}

// ratio validates a non-negative multiple with two fraction digits.
func ratio(errs map[string]string, field string, n request.Number) *decimal.Decimal {
	d := parseDecimal(errs, field, n, false)
	if d == nil {
		return nil
	}
	switch {
	case d.IsNegative():
		errs[field] = field + " must not be negative"
	case !d.Equal(d.Truncate(RatioScale)):
		errs[field] = field + " must have at most 2 decimal places"
	case d.GreaterThanOrEqual(maxRatio):
		errs[field] = field + " must be less than 1000"
	default:
		return d
	}
	return nil
}

// rate validates an IRR fraction. Rates may be negative but never below -100%.
func rate(errs map[string]string, field string, n request.Number) *decimal.Decimal {
	d := parseDecimal(errs, field, n, false)
	if d == nil {
		return nil
	}
	switch {
	case d.LessThan(one.Neg()):
		errs[field] = field + " must not be below -1"
	case !d.Equal(d.Truncate(FractionScale)):
		errs[field] = field + " must have at most 4 decimal places"
	case d.Abs().GreaterThanOrEqual(decimal.NewFromInt(10)):
		errs[field] = field + " must be between -1 and 10"
	default:
		return d
	}
	return nil
}

func parseInt(errs map[string]string, field string, n request.Number, required bool) *int64 {
	if n.Empty() {
		if required {
			errs[field] = field + " is required"
		}
		return nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(n.Raw), 10, 64)
	if err != nil {
		errs[field] = field + " must be an integer"
		return nil
	}
	return &v
}

// reference validates a foreign key. Existence is checked by the repository.
func reference(errs map[string]string, field string, n request.Number, required bool) *int64 {
	v := parseInt(errs, field, n, required)
	if v != nil && *v <= 0 {
		errs[field] = field + " must be a positive integer"
		return nil
	}
	return v
}

func year(errs map[string]string, field string, n request.Number, required bool) *int {
	v := parseInt(errs, field, n, required)
	if v == nil {
		return nil
	}
	if *v < MinYear || *v > MaxYear {
		errs[field] = field + " must be between 1900 and 2100"
		return nil
	}
	y := int(*v)
	return &y
}

func date(errs map[string]string, field, s string, required bool) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		if required {
			errs[field] = field + " is required"
		}
		return time.Time{}
	}
	t, err := ParseTime(s)
	if err != nil {
		errs[field] = field + " must be a date (YYYY-MM-DD or RFC3339)"
		return time.Time{}
	}
	return t
}

func enum(errs map[string]string, field, s, def string, allowed map[string]bool) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		if def == "" {
			errs[field] = field + " is required"
		}
		return def
	}
	if !allowed[s] {
		errs[field] = "invalid " + field + ": " + s
	}
	return s
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
