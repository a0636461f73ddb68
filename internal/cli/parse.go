package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/ponto/internal/domain"
)

// parseTimestamp reads --at values in the store's location.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	return domain.ParseTimestamp(s, loc)
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, s)
	}
	return id, nil
}

func parseYearMonth(y, m string) (int, time.Month, error) {
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", y)
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %q: must be 1-12", m)
	}
	return year, time.Month(month), nil
}

// parseOptionalDate returns the zero Date for an empty flag.
func parseOptionalDate(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s)
}
