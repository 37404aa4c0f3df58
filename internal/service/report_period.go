package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// ReportPeriod is the date range a report covers. Start is zero for
// point-in-time reports; End is the last second of the final day.
type ReportPeriod struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

var (
	quarterPeriod = regexp.MustCompile(`^q([1-4])-(\d{4})$`)
	ytdPeriod     = regexp.MustCompile(`^ytd-(\d{4})$`)
	yearPeriod    = regexp.MustCompile(`^(?:fy-)?(\d{4})$`)
	monthPeriod   = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	dayPeriod     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParsePeriod resolves a period key.
//
// Accepted forms:
//   - q1-2024: a calendar quarter
//   - ytd-2024: January 1st up to today (or year end for past years)
//   - fy-2023 or 2023: a calendar year
//   - 2024-04: a calendar month
//   - 2024-06-30: everything up to and including that day
func ParsePeriod(key string, now time.Time) (ReportPeriod, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	now = now.UTC()

	var p ReportPeriod
	switch {
	case quarterPeriod.MatchString(key):
		m := quarterPeriod.FindStringSubmatch(key)
		q, _ := strconv.Atoi(m[1])
		year, err := periodYear(m[2])
		if err != nil {
			return ReportPeriod{}, err
		}
		p.Start = time.Date(year, time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, time.UTC)
		p.End = EndOfDay(p.Start.AddDate(0, 3, -1))
		p.Label = fmt.Sprintf("Q%d %d", q, year)

	case ytdPeriod.MatchString(key):
		year, err := periodYear(ytdPeriod.FindStringSubmatch(key)[1])
		if err != nil {
			return ReportPeriod{}, err
		}
		p.Start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		p.End = EndOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
		if year == now.Year() {
			p.End = EndOfDay(now)
		}
		p.Label = fmt.Sprintf("YTD %d", year)

	case yearPeriod.MatchString(key):
		year, err := periodYear(yearPeriod.FindStringSubmatch(key)[1])
		if err != nil {
			return ReportPeriod{}, err
		}
		p.Start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		p.End = EndOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
		p.Label = fmt.Sprintf("FY %d", year)

	case monthPeriod.MatchString(key):
		m := monthPeriod.FindStringSubmatch(key)
		year, err := periodYear(m[1])
		if err != nil {
			return ReportPeriod{}, err
		}
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return ReportPeriod{}, periodError("period month must be between 01 and 12")
		}
		p.Start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		p.End = EndOfDay(p.Start.AddDate(0, 1, -1))
		p.Label = p.Start.Format("January 2006")

	case dayPeriod.MatchString(key):
		day, err := time.Parse(time.DateOnly, key)
		if err != nil {
			return ReportPeriod{}, periodError("period is not a valid date")
		}
		p.End = EndOfDay(day)
		p.Label = "As of " + key

	default:
		return ReportPeriod{}, periodError("period must look like q1-2024, ytd-2024, fy-2024, 2024, 2024-04 or 2024-06-30")
	}

	p.Key = key
	return p, nil
}

func periodYear(s string) (int, error) {
	year, _ := strconv.Atoi(s)
	if year < validation.MinYear || year > validation.MaxYear {
		return 0, periodError(fmt.Sprintf("period year must be between %d and %d", validation.MinYear, validation.MaxYear))
	}
	return year, nil
}

func periodError(msg string) error {
	return &validation.Error{Fields: map[string]string{"period": msg}}
}
