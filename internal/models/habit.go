package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/streaks"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Periodicity streaks.Periodicity `json:"periodicity"`
	CreatedAt   time.Time           `json:"created_at"`
	ArchivedAt  *time.Time          `json:"archived_at,omitempty"`
	DeletedAt   *time.Time          `json:"deleted_at,omitempty"`
}

// Validate checks the fields a habit must carry before it is stored
func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if h.UserID == "" {
		return fmt.Errorf("habit %q has no owner", h.Name)
	}
	return h.Periodicity.Validate()
}

// IsActive reports whether the habit is neither archived nor deleted
func (h Habit) IsActive() bool {
	return h.ArchivedAt == nil && h.DeletedAt == nil
}
