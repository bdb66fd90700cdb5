package auth

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// NewSessionToken returns a cryptographically random bearer token with 256
// bits of entropy, url-safe encoded.
func NewSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewChatAPIKey returns a fresh per-chat external key in the form
// "chat_" followed by 32 lowercase hex characters. The prefix keeps the two
// credential namespaces (session tokens, chat keys) disjoint by construction.
func NewChatAPIKey() string {
	return "chat_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
