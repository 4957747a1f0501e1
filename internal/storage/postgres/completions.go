package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

const completionColumns = "id, habit_id, completed_at, note, created_at, deleted_at"

func scanCompletion(row scanner) (models.Completion, error) {
	var c models.Completion
	var deletedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.HabitID, &c.CompletedAt, &c.Note, &c.CreatedAt, &deletedAt); err != nil {
		return models.Completion{}, err
	}
	c.DeletedAt = timePtr(deletedAt)
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
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.HabitID, c.CompletedAt.UTC(), c.Note, c.CreatedAt.UTC(), nullTime(c.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to add completion: %w", err)
	}
	return nil
}

func (s *Store) GetCompletion(id string) (models.Completion, error) {
	return scanCompletion(s.db.QueryRow(`
		SELECT `+completionColumns+`
		FROM completions WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (s *Store) GetCompletions(habitID string, includeDeleted bool) ([]models.Completion, error) {
	query := "SELECT " + completionColumns + " FROM completions WHERE habit_id = $1"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY completed_at, id"
	return s.queryCompletions(query, habitID)
}

func (s *Store) GetLastCompletion(habitID string) (models.Completion, error) {
	return scanCompletion(s.db.QueryRow(`
		SELECT `+completionColumns+`
		FROM completions WHERE habit_id = $1 AND deleted_at IS NULL
		ORDER BY completed_at DESC, id DESC LIMIT 1`, habitID))
}

func (s *Store) GetCompletionsInRange(habitID string, start, end time.Time) ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT `+completionColumns+`
		FROM completions
		WHERE habit_id = $1 AND deleted_at IS NULL AND completed_at >= $2 AND completed_at < $3
		ORDER BY completed_at, id`, habitID, start.UTC(), end.UTC())
}

func (s *Store) UpdateCompletion(c models.Completion) error {
	if err := c.Validate(); err != nil {
		return err
	}
	result, err := s.db.Exec(`
		UPDATE completions SET completed_at = $1, note = $2
		WHERE id = $3 AND deleted_at IS NULL`,
		c.CompletedAt.UTC(), c.Note, c.ID)
	if err != nil {
		return err
	}
	return expectAffected(result, "completion not found")
}

func (s *Store) DeleteCompletion(id string) error {
	result, err := s.db.Exec(`
		UPDATE completions SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectAffected(result, "completion not found or already deleted")
}

func (s *Store) RestoreCompletion(id string) error {
	result, err := s.db.Exec(`
		UPDATE completions SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return expectAffected(result, "completion not found or not deleted")
}
