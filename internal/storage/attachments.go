package storage

import (
	"fmt"
	"time"
)

// CreateAttachment inserts attachment metadata for an existing chat and
// returns the row with its assigned id. A missing chat is ErrNotFound: an
// attachment is never created orphaned.
func (s *Store) CreateAttachment(a Attachment) (Attachment, error) {
	if _, err := s.GetChat(a.ChatID); err != nil {
		return Attachment{}, err
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	res, err := s.db.Exec(
		"INSERT INTO attachments (chat_id, name, mime_type, blob_key, created_at) VALUES (?, ?, ?, ?, ?)",
		a.ChatID, a.Name, a.MimeType, a.BlobKey, a.CreatedAt,
	)
	if err != nil {
		return Attachment{}, err
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return Attachment{}, fmt.Errorf("reading inserted attachment id: %w", err)
	}
	return a, nil
}

// ListAttachments returns a chat's attachment metadata, oldest first.
func (s *Store) ListAttachments(chatID string) ([]Attachment, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, name, mime_type, blob_key, created_at
		FROM attachments WHERE chat_id = ?
		ORDER BY created_at ASC, id ASC`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var atts []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.ChatID, &a.Name, &a.MimeType, &a.BlobKey, &a.CreatedAt); err != nil {
			return nil, err
		}
		atts = append(atts, a)
	}
	return atts, rows.Err()
}
