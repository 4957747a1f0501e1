package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streaks"
)

const habitColumns = "id, user_id, name, description, periodicity, created_at, archived_at, deleted_at"

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var periodicity, createdAt string
	var archivedAt, deletedAt sql.NullString

	if err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &periodicity, &createdAt, &archivedAt, &deletedAt); err != nil {
		return models.Habit{}, err
	}

	p, err := streaks.ParsePeriodicity(periodicity)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	h.Periodicity = p

	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.ArchivedAt, err = parseNullTime("archived_at", archivedAt); err != nil {
		return models.Habit{}, err
	}
	if h.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) queryHabits(query string, args ...any) ([]models.Habit, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) AddHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.UserID, habit.Name, habit.Description, string(habit.Periodicity),
		formatTime(habit.CreatedAt), nullTime(habit.ArchivedAt), nullTime(habit.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to add habit %q: %w", habit.Name, err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	return scanHabit(s.db.QueryRow(`
		SELECT `+habitColumns+`
		FROM habits WHERE id = ? AND deleted_at IS NULL`, id))
}

func (s *Store) GetHabitByName(userID, name string) (models.Habit, error) {
	return scanHabit(s.db.QueryRow(`
		SELECT `+habitColumns+`
		FROM habits WHERE user_id = ? AND LOWER(name) = LOWER(?) AND deleted_at IS NULL`, userID, name))
}

func (s *Store) GetAllHabits(userID string, includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE 1=1"
	var args []any
	if userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at, id"

	return s.queryHabits(query, args...)
}

func (s *Store) GetHabitsByPeriodicity(userID string, periodicity streaks.Periodicity) ([]models.Habit, error) {
	if err := periodicity.Validate(); err != nil {
		return nil, err
	}
	return s.queryHabits(`
		SELECT `+habitColumns+`
		FROM habits
		WHERE user_id = ? AND periodicity = ? AND deleted_at IS NULL AND archived_at IS NULL
		ORDER BY created_at, id`, userID, string(periodicity))
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	result, err := s.db.Exec(`
		UPDATE habits SET name = ?, description = ?, periodicity = ?
		WHERE id = ? AND deleted_at IS NULL`,
		habit.Name, habit.Description, string(habit.Periodicity), habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit %q: %w", habit.Name, err)
	}
	return expectAffected(result, "habit not found")
}

func (s *Store) ArchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = ? WHERE id = ? AND deleted_at IS NULL AND archived_at IS NULL`,
		formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return expectAffected(result, "habit not found or already archived/deleted")
}

func (s *Store) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = NULL WHERE id = ? AND deleted_at IS NULL AND archived_at IS NOT NULL`,
		id)
	if err != nil {
		return err
	}
	return expectAffected(result, "habit not found or not archived")
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return expectAffected(result, "habit not found or already deleted")
}

func (s *Store) RestoreHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "habit not found or not deleted")
}

func (s *Store) PurgeHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM completions WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}
	result, err := tx.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := expectAffected(result, "habit not found"); err != nil {
		return err
	}
	return tx.Commit()
}
