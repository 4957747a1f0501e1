package postgres

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingCurrentUser:
			settings.CurrentUser = value
		}
	}
	return settings, rows.Err()
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range map[string]string{
		constants.SettingTimezone:    settings.Timezone,
		constants.SettingCurrentUser: settings.CurrentUser,
	} {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}
