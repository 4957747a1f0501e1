package sqlite

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
)

const userColumns = "id, username, email, created_at"

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &createdAt); err != nil {
		return models.User{}, err
	}
	t, err := parseTime("created_at", createdAt)
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}

func (s *Store) AddUser(user models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, formatTime(user.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add user %q: %w", user.Username, err)
	}
	return nil
}

func (s *Store) GetUser(id string) (models.User, error) {
	return scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *Store) GetUserByUsername(username string) (models.User, error) {
	return scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (s *Store) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(user models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	result, err := s.db.Exec(`UPDATE users SET username = ?, email = ? WHERE id = ?`,
		user.Username, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %q: %w", user.Username, err)
	}
	return expectAffected(result, "user not found")
}

func (s *Store) DeleteUser(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM completions WHERE habit_id IN (SELECT id FROM habits WHERE user_id = ?)`, id); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM habits WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete habits: %w", err)
	}
	result, err := tx.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := expectAffected(result, "user not found"); err != nil {
		return err
	}
	return tx.Commit()
}
