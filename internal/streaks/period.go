package streaks

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// PeriodKey identifies the calendar bucket a timestamp falls into.
// Daily keys carry Year/Month/Day; weekly keys carry the ISO Year/Week.
// Unused fields are always zero so keys compare with ==.
type PeriodKey struct {
	Periodicity Periodicity
	Year        int
	Month       time.Month
	Day         int
	Week        int
}

// Periods is an ascending, duplicate-free sequence of period keys.
type Periods []PeriodKey

// KeyFor returns the period containing t. Daily keys use the calendar date
// in t's own location, so callers should convert t into the user's timezone first.
func KeyFor(p Periodicity, t time.Time) (PeriodKey, error) {
	if err := p.Validate(); err != nil {
		return PeriodKey{}, err
	}
	if t.IsZero() {
		return PeriodKey{}, fmt.Errorf("%w: zero time", ErrInvalidTimestamp)
	}
	return keyFor(p, t), nil
}

func keyFor(p Periodicity, t time.Time) PeriodKey {
	if p == Weekly {
		year, week := t.ISOWeek()
		return PeriodKey{Periodicity: Weekly, Year: year, Week: week}
	}
	year, month, day := t.Date()
	return PeriodKey{Periodicity: Daily, Year: year, Month: month, Day: day}
}

// Start returns midnight UTC on the first day of the period
// (the Monday of the ISO week for weekly keys).
func (k PeriodKey) Start() time.Time {
	if k.Periodicity == Weekly {
		return isoWeekStart(k.Year, k.Week)
	}
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
}

// Next returns the period immediately after k.
func (k PeriodKey) Next() PeriodKey {
	return k.shift(1)
}

// Prev returns the period immediately before k.
func (k PeriodKey) Prev() PeriodKey {
	return k.shift(-1)
}

func (k PeriodKey) shift(n int) PeriodKey {
	days := n
	if k.Periodicity == Weekly {
		days = 7 * n
	}
	return keyFor(k.Periodicity, k.Start().AddDate(0, 0, days))
}

// Before reports whether k sorts before o.
func (k PeriodKey) Before(o PeriodKey) bool {
	return comparePeriods(k, o) < 0
}

// String renders the key as "2025-01-03" (daily) or "2025-W01" (weekly).
func (k PeriodKey) String() string {
	if k.Periodicity == Weekly {
		return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
	}
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

func comparePeriods(a, b PeriodKey) int {
	return cmp.Or(
		cmp.Compare(a.Year, b.Year),
		cmp.Compare(a.Week, b.Week),
		cmp.Compare(a.Month, b.Month),
		cmp.Compare(a.Day, b.Day),
	)
}

// isoWeekStart returns the Monday of the given ISO week. January 4th is
// always in week 1, which anchors the calculation across year boundaries.
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -sinceMonday+(week-1)*7)
}

// NormalizeKeys sorts keys ascending and removes duplicates. The input is not modified.
func NormalizeKeys(keys []PeriodKey) Periods {
	out := make(Periods, len(keys))
	copy(out, keys)
	slices.SortFunc(out, comparePeriods)
	return slices.Compact(out)
}

// Contains reports whether k is one of the periods.
func (ps Periods) Contains(k PeriodKey) bool {
	_, found := slices.BinarySearchFunc(ps, k, comparePeriods)
	return found
}

// Starts returns the start time of every period, in order.
func (ps Periods) Starts() []time.Time {
	out := make([]time.Time, len(ps))
	for i, k := range ps {
		out[i] = k.Start()
	}
	return out
}
