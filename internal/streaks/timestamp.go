package streaks

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Fractional seconds are accepted by
// time.Parse after the seconds field even when the layout omits them.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTimestamp parses an ISO-8601 date or datetime. Values without an
// explicit offset are interpreted in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	return ParseTimestampInLocation(s, time.UTC)
}

// ParseTimestampInLocation parses an ISO-8601 date or datetime, interpreting
// values without an explicit offset in loc.
func ParseTimestampInLocation(s string, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 date or datetime", ErrInvalidTimestamp, s)
}

// ParseTimestamps parses every value with ParseTimestamp, stopping at the first failure.
func ParseTimestamps(values []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		t, err := ParseTimestamp(v)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
