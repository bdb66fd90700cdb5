// Package auth implements the two trust domains of the server: operator
// bearer sessions minted against the single configured master password, and
// per-chat external API keys.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"solochat/internal/storage"
)

// ErrUnauthorized is returned for a wrong password or a missing, unknown, or
// expired credential in either trust domain.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNoMasterPassword is returned by Login when no operator secret is
// configured. Distinct from ErrUnauthorized: this is an operator
// misconfiguration, not a failed credential.
var ErrNoMasterPassword = errors.New("master password not configured")

// sessionTTL is the fixed validity window of a session. There is no refresh
// and no revocation; expiry is the only termination path.
const sessionTTL = 90 * 24 * time.Hour

// Authority issues and validates operator sessions.
type Authority struct {
	store  *storage.Store
	master string
}

// NewAuthority creates an Authority checking against masterPassword. An empty
// masterPassword is legal at construction time and surfaces as
// ErrNoMasterPassword on every login attempt.
func NewAuthority(store *storage.Store, masterPassword string) *Authority {
	return &Authority{store: store, master: masterPassword}
}

// Login compares password against the configured master password in constant
// time and, on match, mints and persists a new session.
func (a *Authority) Login(password string) (storage.Session, error) {
	if a.master == "" {
		return storage.Session{}, ErrNoMasterPassword
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.master)) != 1 {
		return storage.Session{}, ErrUnauthorized
	}

	token, err := NewSessionToken()
	if err != nil {
		return storage.Session{}, fmt.Errorf("generating session token: %w", err)
	}

	now := time.Now().Unix()
	sess := storage.Session{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now + int64(sessionTTL/time.Second),
	}
	if err := a.store.CreateSession(sess); err != nil {
		return storage.Session{}, fmt.Errorf("persisting session: %w", err)
	}
	return sess, nil
}

// Validate returns the session for token if it exists and has not expired.
// Expiry is strict: a session is invalid at its exact expiry instant.
func (a *Authority) Validate(token string) (storage.Session, error) {
	if token == "" {
		return storage.Session{}, ErrUnauthorized
	}
	sess, err := a.store.GetValidSession(token, time.Now().Unix())
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Session{}, ErrUnauthorized
	}
	if err != nil {
		return storage.Session{}, err
	}
	return sess, nil
}
