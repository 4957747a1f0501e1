package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/streaks"
)

// Completion records that a habit was performed at a point in time
type Completion struct {
	ID          string     `json:"id"`
	HabitID     string     `json:"habit_id"`
	CompletedAt time.Time  `json:"completed_at"`
	Note        string     `json:"note"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (c Completion) Validate() error {
	if c.HabitID == "" {
		return fmt.Errorf("completion %s has no habit", c.ID)
	}
	if c.CompletedAt.IsZero() {
		return fmt.Errorf("%w: completion %s has no completion time", streaks.ErrInvalidTimestamp, c.ID)
	}
	return nil
}

// CompletionTimes extracts the completion timestamps, converted into loc when it is non-nil
func CompletionTimes(completions []Completion, loc *time.Location) []time.Time {
	out := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		if loc != nil {
			out = append(out, c.CompletedAt.In(loc))
		} else {
			out = append(out, c.CompletedAt)
		}
	}
	return out
}
