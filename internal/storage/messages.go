package storage

import (
	"fmt"
	"time"
)

// AppendMessage adds one entry to a chat's turn log and returns it with its
// assigned id. Entries are never mutated afterwards; (created_at, id) gives
// the total insertion order even when timestamps coincide.
func (s *Store) AppendMessage(chatID, role, content string) (Message, error) {
	m := Message{
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().Unix(),
	}
	res, err := s.db.Exec(
		"INSERT INTO messages (chat_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		m.ChatID, m.Role, m.Content, m.CreatedAt,
	)
	if err != nil {
		return Message{}, err
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return Message{}, fmt.Errorf("reading inserted message id: %w", err)
	}
	return m, nil
}

// ListMessages returns up to limit messages for a chat, oldest first.
func (s *Store) ListMessages(chatID string, limit int) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, role, content, created_at
		FROM messages WHERE chat_id = ?
		ORDER BY created_at ASC, id ASC LIMIT ?`,
		chatID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// RecentMessages returns the most recent n messages for a chat in ascending
// chronological order: the sliding context window, not the full history.
func (s *Store) RecentMessages(chatID string, n int) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, role, content, created_at
		FROM messages WHERE chat_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`,
		chatID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanMessages(rows rowScanner) ([]Message, error) {
	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
