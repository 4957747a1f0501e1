package streaks

import (
	"fmt"
	"strings"
)

// Periodicity is the expected completion cadence of a habit.
type Periodicity string

const (
	// Daily expects one completion per calendar day.
	Daily Periodicity = "daily"
	// Weekly expects one completion per ISO-8601 week (Monday to Sunday).
	Weekly Periodicity = "weekly"
)

// Periodicities lists every supported periodicity in display order.
var Periodicities = []Periodicity{Daily, Weekly}

// ParsePeriodicity converts user or storage input into a Periodicity.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePeriodicity(s string) (Periodicity, error) {
	p := Periodicity(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate reports ErrInvalidPeriodicity for anything other than Daily or Weekly.
func (p Periodicity) Validate() error {
	switch p {
	case Daily, Weekly:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidPeriodicity, string(p), Daily, Weekly)
	}
}

func (p Periodicity) String() string {
	return string(p)
}

// Noun returns the singular period name, e.g. "day" or "week".
func (p Periodicity) Noun() string {
	switch p {
	case Daily:
		return "day"
	case Weekly:
		return "week"
	default:
		return "period"
	}
}
