package storage

import (
	"database/sql"
	"time"
)

// SetSetting upserts an operator-wide setting. Last write wins; only the
// updated timestamp moves on overwrite.
func (s *Store) SetSetting(key, value string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now, now,
	)
	return err
}

// GetSetting returns the value for key, or ErrNotFound if it was never set.
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}
