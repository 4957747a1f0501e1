package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streaks"
)

const completionColumns = "id, habit_id, completed_at, note, created_at, deleted_at"

func scanCompletion(row scanner) (models.Completion, error) {
	var c models.Completion
	var completedAt, createdAt string
	var deletedAt sql.NullString

	if err := row.Scan(&c.ID, &c.HabitID, &completedAt, &c.Note, &createdAt, &deletedAt); err != nil {
		return models.Completion{}, err
	}

	var err error
	// completed_at may have been written by hand, so accept every supported layout
	if c.CompletedAt, err = streaks.ParseTimestamp(completedAt); err != nil {
		return models.Completion{}, fmt.Errorf("completion %s: %w", c.ID, err)
	}
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Completion{}, err
	}
	if c.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Completion{}, err
	}
	return c, nil
}

func (s *Store) queryCompletions(query string, args ...any) ([]models.Completion, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) AddCompletion(c models.Completion) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO completions (`+completionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.HabitID, formatTime(c.CompletedAt), c.Note, formatTime(c.CreatedAt), nullTime(c.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to add completion: %w", err)
	}
	return nil
}

func (s *Store) GetCompletion(id string) (models.Completion, error) {
	return scanCompletion(s.db.QueryRow(`
		SELECT `+completionColumns+`
		FROM completions WHERE id = ? AND deleted_at IS NULL`, id))
}

func (s *Store) GetCompletions(habitID string, includeDeleted bool) ([]models.Completion, error) {
	query := "SELECT " + completionColumns + " FROM completions WHERE habit_id = ?"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY completed_at, id"
	return s.queryCompletions(query, habitID)
}

func (s *Store) GetLastCompletion(habitID string) (models.Completion, error) {
	return scanCompletion(s.db.QueryRow(`
		SELECT `+completionColumns+`
		FROM completions WHERE habit_id = ? AND deleted_at IS NULL
		ORDER BY completed_at DESC, id DESC LIMIT 1`, habitID))
}

func (s *Store) GetCompletionsInRange(habitID string, start, end time.Time) ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT `+completionColumns+`
		FROM completions
		WHERE habit_id = ? AND deleted_at IS NULL AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at, id`, habitID, formatTime(start), formatTime(end))
}

func (s *Store) UpdateCompletion(c models.Completion) error {
	if err := c.Validate(); err != nil {
		return err
	}
	result, err := s.db.Exec(`
		UPDATE completions SET completed_at = ?, note = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(c.CompletedAt), c.Note, c.ID)
	if err != nil {
		return err
	}
	return expectAffected(result, "completion not found")
}

func (s *Store) DeleteCompletion(id string) error {
	result, err := s.db.Exec(`
		UPDATE completions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return expectAffected(result, "completion not found or already deleted")
}

func (s *Store) RestoreCompletion(id string) error {
	result, err := s.db.Exec(`
		UPDATE completions SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "completion not found or not deleted")
}
