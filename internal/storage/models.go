package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrFolderCycle is returned when a folder re-parent would create a cycle
// (including a folder referencing itself).
var ErrFolderCycle = errors.New("folder parent would create a cycle")

// Message roles. Any stored role other than RoleModel is treated as user
// input when the outbound context is assembled.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Session is an operator bearer session. Sessions are never mutated or
// deleted; validity is purely a read-time predicate on ExpiresAt.
type Session struct {
	Token     string `json:"token"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// Setting is one operator-wide key/value row. Last write wins.
type Setting struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Folder is a named container for chats. Folders form a forest via ParentID;
// nesting is reconstructed by the client from the flat parent pointers.
type Folder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// Chat is one conversation: title, folder placement, the per-chat external
// API key, and an optional system prompt.
type Chat struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	FolderID     *string `json:"folder_id"`
	APIKey       string  `json:"api_key"`
	SystemPrompt *string `json:"system_prompt"`
	CreatedAt    int64   `json:"created_at"`
}

// Message is one turn-log entry. Append-only, ordered by (created_at, id).
type Message struct {
	ID        int64  `json:"id"`
	ChatID    string `json:"chat_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// Attachment binds an opaque blob key to chat-scoped metadata. The blob key
// never leaves the server.
type Attachment struct {
	ID        int64  `json:"id"`
	ChatID    string `json:"chat_id"`
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	BlobKey   string `json:"-"`
	CreatedAt int64  `json:"created_at"`
}

// ChatUpdate describes a partial chat update. Nil fields are left unchanged.
// FolderID and ClearFolder are mutually exclusive; APIKey, when set, replaces
// the external key atomically with the other field updates.
type ChatUpdate struct {
	Title        *string
	FolderID     *string
	ClearFolder  bool
	SystemPrompt *string
	APIKey       *string
}

// FolderUpdate describes a partial folder update. Nil fields are left
// unchanged. ParentID and ClearParent are mutually exclusive.
type FolderUpdate struct {
	Name        *string
	ParentID    *string
	ClearParent bool
}
