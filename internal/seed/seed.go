// Package seed creates the starter habits a new user begins with.
package seed

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streaks"
)

// Template describes a predefined habit
type Template struct {
	Name        string
	Description string
	Periodicity streaks.Periodicity
}

var Habits = []Template{
	{"Exercise", "30 minutes of physical exercise", streaks.Daily},
	{"Reading", "Read 20 pages of a book", streaks.Daily},
	{"Meditation", "10 minutes of meditation", streaks.Daily},
	{"Weekly Cleaning", "Clean the house thoroughly", streaks.Weekly},
	{"Grocery Shopping", "Buy weekly groceries", streaks.Weekly},
}

// Writer is the slice of storage.Provider seeding needs
type Writer interface {
	AddHabit(models.Habit) error
	AddCompletion(models.Completion) error
}

func stepDays(p streaks.Periodicity) int {
	if p == streaks.Weekly {
		return 7
	}
	return 1
}

// Completions returns example completion times for p, one per period,
// walking back from now across constants.SeedHistory in now's location.
func Completions(p streaks.Periodicity, now time.Time) []time.Time {
	var out []time.Time
	start := now.Add(-constants.SeedHistory)
	for at := now; at.After(start); at = at.AddDate(0, 0, -stepDays(p)) {
		out = append(out, at)
	}
	return out
}

// Seed stores the predefined habits for userID with their example history.
func Seed(w Writer, userID string, now time.Time) ([]models.Habit, error) {
	habits := make([]models.Habit, 0, len(Habits))
	for _, tpl := range Habits {
		h := models.Habit{
			ID:          models.NewID(),
			UserID:      userID,
			Name:        tpl.Name,
			Description: tpl.Description,
			Periodicity: tpl.Periodicity,
			CreatedAt:   now.Add(-constants.SeedHistory),
		}
		if err := w.AddHabit(h); err != nil {
			return habits, fmt.Errorf("failed to seed habit %q: %w", tpl.Name, err)
		}

		times := Completions(tpl.Periodicity, now)
		for _, at := range times {
			c := models.Completion{
				ID:          models.NewID(),
				HabitID:     h.ID,
				CompletedAt: at,
				Note:        "example",
				CreatedAt:   now,
			}
			if err := w.AddCompletion(c); err != nil {
				return habits, fmt.Errorf("failed to seed completion for %q: %w", tpl.Name, err)
			}
		}

		logger.Debug("seeded habit", "habit", h.Name, "completions", len(times))
		habits = append(habits, h)
	}
	return habits, nil
}
