package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Common validation errors
var (
	ErrInvalidID        = fmt.Errorf("invalid ID format")
	ErrInvalidDateRange = fmt.Errorf("invalid date range")
)

// ValidateID parses a path or query identifier. Identifiers are positive integers.
func ValidateID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return n, nil
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}
