// Package analytics answers streak questions about stored habits.
package analytics

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/streaks"
	"github.com/julianstephens/habitual/internal/utils"
)

// Service runs streak analytics over a habit store.
type Service struct {
	store storage.HabitReader
	now   func() time.Time
}

func New(store storage.HabitReader) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock replaces the clock used when a caller passes a zero reference time.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// HabitStats is one habit together with its streak summary
type HabitStats struct {
	Habit models.Habit
	streaks.Summary
	// LastCompleted is the most recent completion in the configured timezone
	LastCompleted *time.Time
}

// Leader is the habit with the longest streak for a user
type Leader struct {
	Habit  models.Habit
	Streak int
}

// Location returns the timezone periods are evaluated in.
func (s *Service) Location() (*time.Location, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return utils.LocationFromSettings(settings)
}

func (s *Service) reference(ref time.Time, loc *time.Location) time.Time {
	if ref.IsZero() {
		ref = s.now()
	}
	return ref.In(loc)
}

// PeriodBounds returns the [start, end) range of the period containing ref,
// as wall-clock midnights in the configured timezone. A zero ref means now.
func (s *Service) PeriodBounds(p streaks.Periodicity, ref time.Time) (time.Time, time.Time, error) {
	loc, err := s.Location()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	key, err := streaks.KeyFor(p, s.reference(ref, loc))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end := key.Start(), key.Next().Start()
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc),
		time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc), nil
}

func (s *Service) ListHabits(userID string) ([]models.Habit, error) {
	return s.store.GetAllHabits(userID, false, false)
}

func (s *Service) HabitsByPeriodicity(userID string, p streaks.Periodicity) ([]models.Habit, error) {
	return s.store.GetHabitsByPeriodicity(userID, p)
}

func (s *Service) history(habit models.Habit, loc *time.Location) ([]time.Time, error) {
	completions, err := s.store.GetCompletions(habit.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions for %q: %w", habit.Name, err)
	}
	return models.CompletionTimes(completions, loc), nil
}

func (s *Service) stats(habit models.Habit, ref time.Time, loc *time.Location) (HabitStats, error) {
	times, err := s.history(habit, loc)
	if err != nil {
		return HabitStats{}, err
	}
	summary, err := streaks.Summarize(habit.Periodicity, times, ref)
	if err != nil {
		return HabitStats{}, fmt.Errorf("habit %q: %w", habit.Name, err)
	}

	st := HabitStats{Habit: habit, Summary: summary}
	for i := range times {
		if st.LastCompleted == nil || times[i].After(*st.LastCompleted) {
			st.LastCompleted = &times[i]
		}
	}
	logger.Debug("summarized habit", "habit", habit.Name, "longest", summary.Longest, "current", summary.Current, "due", summary.Due)
	return st, nil
}

// HabitStreak summarizes one habit at ref. A zero ref means now.
func (s *Service) HabitStreak(habit models.Habit, ref time.Time) (HabitStats, error) {
	loc, err := s.Location()
	if err != nil {
		return HabitStats{}, err
	}
	return s.stats(habit, s.reference(ref, loc), loc)
}

// AllStreaks summarizes every active habit of a user at ref.
func (s *Service) AllStreaks(userID string, ref time.Time) ([]HabitStats, error) {
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	ref = s.reference(ref, loc)

	habits, err := s.ListHabits(userID)
	if err != nil {
		return nil, err
	}

	out := make([]HabitStats, 0, len(habits))
	for _, h := range habits {
		st, err := s.stats(h, ref, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// LongestOverall finds the active habit with the longest streak ever.
// Ties go to the smallest habit ID, which for time-ordered IDs is the oldest habit.
func (s *Service) LongestOverall(userID string) (Leader, error) {
	loc, err := s.Location()
	if err != nil {
		return Leader{}, err
	}
	habits, err := s.ListHabits(userID)
	if err != nil {
		return Leader{}, err
	}

	byID := make(map[string]models.Habit, len(habits))
	histories := make([]streaks.History, 0, len(habits))
	for _, h := range habits {
		times, err := s.history(h, loc)
		if err != nil {
			return Leader{}, err
		}
		byID[h.ID] = h
		histories = append(histories, streaks.History{HabitID: h.ID, Periodicity: h.Periodicity, Timestamps: times})
	}

	overall, err := streaks.LongestStreakOverall(histories)
	if err != nil {
		return Leader{}, err
	}
	return Leader{Habit: byID[overall.HabitID], Streak: overall.Streak}, nil
}

// HabitsDue returns the active habits whose period containing ref has no completion.
func (s *Service) HabitsDue(userID string, ref time.Time) ([]HabitStats, error) {
	all, err := s.AllStreaks(userID, ref)
	if err != nil {
		return nil, err
	}
	var due []HabitStats
	for _, st := range all {
		if st.Due {
			due = append(due, st)
		}
	}
	return due, nil
}
