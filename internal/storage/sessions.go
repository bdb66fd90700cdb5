package storage

import "database/sql"

// CreateSession inserts a new session row. Sessions are immutable after
// creation.
func (s *Store) CreateSession(sess Session) error {
	_, err := s.db.Exec(
		"INSERT INTO sessions (token, created_at, expires_at) VALUES (?, ?, ?)",
		sess.Token, sess.CreatedAt, sess.ExpiresAt,
	)
	return err
}

// GetValidSession returns the session for token if one exists and its expiry
// is strictly in the future at the given instant. An expired session is
// indistinguishable from a missing one: both return ErrNotFound.
func (s *Store) GetValidSession(token string, now int64) (Session, error) {
	var sess Session
	err := s.db.QueryRow(
		"SELECT token, created_at, expires_at FROM sessions WHERE token = ? AND expires_at > ?",
		token, now,
	).Scan(&sess.Token, &sess.CreatedAt, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}
