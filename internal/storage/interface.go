package storage

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streaks"
)

// HabitReader is the read-only view the analytics layer needs
type HabitReader interface {
	GetSettings() (models.Settings, error)
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(userID, name string) (models.Habit, error)
	GetAllHabits(userID string, includeArchived, includeDeleted bool) ([]models.Habit, error)
	GetHabitsByPeriodicity(userID string, periodicity streaks.Periodicity) ([]models.Habit, error)
	GetCompletions(habitID string, includeDeleted bool) ([]models.Completion, error)
}

type Provider interface {
	HabitReader

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	SaveSettings(models.Settings) error

	// Users
	AddUser(models.User) error
	GetUser(id string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	UpdateUser(models.User) error
	// DeleteUser removes the user together with every habit and completion they own.
	DeleteUser(id string) error

	// Habits
	AddHabit(models.Habit) error
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error
	// PurgeHabit permanently removes a habit and its completions.
	PurgeHabit(id string) error

	// Completions
	AddCompletion(models.Completion) error
	GetCompletion(id string) (models.Completion, error)
	GetLastCompletion(habitID string) (models.Completion, error)
	// GetCompletionsInRange returns live completions with start <= completed_at < end.
	GetCompletionsInRange(habitID string, start, end time.Time) ([]models.Completion, error)
	UpdateCompletion(models.Completion) error
	DeleteCompletion(id string) error
	RestoreCompletion(id string) error

	// Utils
	GetConfigPath() string
}
