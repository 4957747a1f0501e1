// Package streaks derives streak analytics from a habit's periodicity and
// its completion timestamps. Every function is pure: inputs are only read,
// results are freshly allocated, and nothing is logged or persisted.
package streaks

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidPeriodicity is returned when a periodicity is neither Daily nor Weekly.
	ErrInvalidPeriodicity = errors.New("invalid periodicity")
	// ErrInvalidTimestamp is returned for timestamps that cannot be parsed or are the zero time.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrEmptyHabitSet is returned by LongestStreakOverall when no habits are supplied.
	ErrEmptyHabitSet = errors.New("no habits to compare")
)

// History is the completion history of a single habit.
type History struct {
	HabitID     string
	Periodicity Periodicity
	Timestamps  []time.Time
}

// Overall is the habit holding the longest streak among a set of habits.
type Overall struct {
	HabitID string
	Streak  int
}

// Summary bundles every per-habit metric for one reference time.
type Summary struct {
	Longest int
	Current int
	Due     bool
	// Covered is the number of distinct periods with at least one completion.
	Covered int
	// Last is the most recent covered period, nil when there are no completions.
	Last *PeriodKey
}

// NormalizePeriods maps each timestamp to its period key, removes duplicate
// keys and sorts them ascending. Empty input yields an empty sequence.
func NormalizePeriods(p Periodicity, timestamps []time.Time) (Periods, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	keys := make([]PeriodKey, 0, len(timestamps))
	for i, ts := range timestamps {
		if ts.IsZero() {
			return nil, fmt.Errorf("%w: completion %d has zero time", ErrInvalidTimestamp, i)
		}
		keys = append(keys, keyFor(p, ts))
	}
	return NormalizeKeys(keys), nil
}

// LongestStreak returns the longest run of consecutive covered periods.
func LongestStreak(p Periodicity, timestamps []time.Time) (int, error) {
	periods, err := NormalizePeriods(p, timestamps)
	if err != nil {
		return 0, err
	}
	return longest(periods), nil
}

// CurrentStreak returns the length of the run that ends in the period containing
// reference or the period just before it. A run whose last period is older than
// that is broken and yields 0. Periods after the reference period are ignored.
func CurrentStreak(p Periodicity, timestamps []time.Time, reference time.Time) (int, error) {
	periods, ref, err := prepare(p, timestamps, reference)
	if err != nil {
		return 0, err
	}
	return current(periods, ref), nil
}

// IsDue reports whether the period containing reference has no completion yet.
func IsDue(p Periodicity, timestamps []time.Time, reference time.Time) (bool, error) {
	periods, ref, err := prepare(p, timestamps, reference)
	if err != nil {
		return false, err
	}
	return !periods.Contains(ref), nil
}

// Summarize computes the longest streak, current streak and due flag in one pass
// over the normalized periods.
func Summarize(p Periodicity, timestamps []time.Time, reference time.Time) (Summary, error) {
	periods, ref, err := prepare(p, timestamps, reference)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		Longest: longest(periods),
		Current: current(periods, ref),
		Due:     !periods.Contains(ref),
		Covered: len(periods),
	}
	if len(periods) > 0 {
		last := periods[len(periods)-1]
		s.Last = &last
	}
	return s, nil
}

// LongestStreakOverall applies LongestStreak to every history and returns the
// maximum. Ties go to the lexically smallest habit ID so the result does not
// depend on input order.
func LongestStreakOverall(histories []History) (Overall, error) {
	if len(histories) == 0 {
		return Overall{}, ErrEmptyHabitSet
	}

	var best Overall
	for i, h := range histories {
		streak, err := LongestStreak(h.Periodicity, h.Timestamps)
		if err != nil {
			return Overall{}, fmt.Errorf("habit %s: %w", h.HabitID, err)
		}
		if i == 0 || streak > best.Streak || (streak == best.Streak && h.HabitID < best.HabitID) {
			best = Overall{HabitID: h.HabitID, Streak: streak}
		}
	}
	return best, nil
}

func prepare(p Periodicity, timestamps []time.Time, reference time.Time) (Periods, PeriodKey, error) {
	periods, err := NormalizePeriods(p, timestamps)
	if err != nil {
		return nil, PeriodKey{}, err
	}
	if reference.IsZero() {
		return nil, PeriodKey{}, fmt.Errorf("%w: reference time is zero", ErrInvalidTimestamp)
	}
	return periods, keyFor(p, reference), nil
}

func longest(periods Periods) int {
	if len(periods) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(periods); i++ {
		if periods[i] == periods[i-1].Next() {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

func current(periods Periods, ref PeriodKey) int {
	// last period at or before the reference
	idx := len(periods) - 1
	for idx >= 0 && ref.Before(periods[idx]) {
		idx--
	}
	if idx < 0 {
		return 0
	}
	if last := periods[idx]; last != ref && last != ref.Prev() {
		return 0
	}
	run := 1
	for i := idx; i > 0 && periods[i-1].Next() == periods[i]; i-- {
		run++
	}
	return run
}
