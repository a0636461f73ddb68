package domain

import (
	"fmt"
	"time"
)

// timestampLayouts are accepted by ParseTimestamp, most specific first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseTimestamp reads a wall-clock time in loc. RFC 3339 input keeps its
// own offset.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected YYYY-MM-DD HH:MM[:SS] or RFC 3339", s)
}
