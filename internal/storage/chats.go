package storage

import (
	"database/sql"
	"fmt"
)

// CreateChat inserts a new chat. A non-nil folder must reference an existing
// folder; ErrNotFound is returned otherwise.
func (s *Store) CreateChat(c Chat) error {
	if c.FolderID != nil {
		if _, err := s.GetFolder(*c.FolderID); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(
		"INSERT INTO chats (id, title, folder_id, api_key, system_prompt, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.Title, c.FolderID, c.APIKey, c.SystemPrompt, c.CreatedAt,
	)
	return err
}

// GetChat returns the chat with the given id.
func (s *Store) GetChat(id string) (Chat, error) {
	return s.getChat("id", id)
}

// GetChatByAPIKey resolves a chat from its external API key by exact match.
// This is the sole lookup path for the external trust domain.
func (s *Store) GetChatByAPIKey(key string) (Chat, error) {
	return s.getChat("api_key", key)
}

func (s *Store) getChat(column, value string) (Chat, error) {
	var c Chat
	err := s.db.QueryRow(
		"SELECT id, title, folder_id, api_key, system_prompt, created_at FROM chats WHERE "+column+" = ?",
		value,
	).Scan(&c.ID, &c.Title, &c.FolderID, &c.APIKey, &c.SystemPrompt, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return Chat{}, ErrNotFound
	}
	if err != nil {
		return Chat{}, err
	}
	return c, nil
}

// ListChats returns all chats newest-first. Creation-time ties break on id so
// the order is deterministic.
func (s *Store) ListChats() ([]Chat, error) {
	rows, err := s.db.Query(`
		SELECT id, title, folder_id, api_key, system_prompt, created_at
		FROM chats ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ID, &c.Title, &c.FolderID, &c.APIKey, &c.SystemPrompt, &c.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// UpdateChat applies a partial update and returns the updated row. All field
// changes, including an API key replacement, land in one UPDATE so a
// regenerated key is never observable alongside stale fields.
func (s *Store) UpdateChat(id string, upd ChatUpdate) (Chat, error) {
	c, err := s.GetChat(id)
	if err != nil {
		return Chat{}, err
	}

	if upd.Title != nil {
		c.Title = *upd.Title
	}
	switch {
	case upd.ClearFolder:
		c.FolderID = nil
	case upd.FolderID != nil:
		folder := *upd.FolderID
		if _, err := s.GetFolder(folder); err != nil {
			return Chat{}, err
		}
		c.FolderID = &folder
	}
	if upd.SystemPrompt != nil {
		if *upd.SystemPrompt == "" {
			c.SystemPrompt = nil
		} else {
			prompt := *upd.SystemPrompt
			c.SystemPrompt = &prompt
		}
	}
	if upd.APIKey != nil {
		c.APIKey = *upd.APIKey
	}

	_, err = s.db.Exec(
		"UPDATE chats SET title = ?, folder_id = ?, api_key = ?, system_prompt = ? WHERE id = ?",
		c.Title, c.FolderID, c.APIKey, c.SystemPrompt, c.ID,
	)
	if err != nil {
		return Chat{}, err
	}
	return c, nil
}

// DeleteChat removes a chat together with all of its messages and attachment
// rows in a single transaction: readers racing the commit see either the full
// pre-delete state or nothing. Blob payloads are the caller's concern and are
// purged before this is called.
func (s *Store) DeleteChat(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	var exists string
	err = tx.QueryRow("SELECT id FROM chats WHERE id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM attachments WHERE chat_id = ?", id); err != nil {
		return fmt.Errorf("deleting attachments: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", id); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM chats WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}

	return tx.Commit()
}
