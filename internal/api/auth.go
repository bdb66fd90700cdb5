package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"solochat/internal/auth"
	"solochat/internal/storage"
)

// ChatKeyHeader carries the per-chat external API key.
const ChatKeyHeader = "X-CHAT-API-KEY"

// SessionAuth guards operator routes with a bearer session token.
func SessionAuth(authority *auth.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing bearer token")
				return
			}
			if _, err := authority.Validate(header[len(prefix):]); err != nil {
				respondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ChatKeyAuth guards the external automation surface. The key must resolve to
// a chat AND that chat must be the one in the request path; anything else is
// a uniform 401 so key holders cannot probe for other chats' existence.
func ChatKeyAuth(store *storage.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(ChatKeyHeader)
			if key == "" {
				httpError(w, http.StatusUnauthorized, "authentication_error", "missing %s header", ChatKeyHeader)
				return
			}
			c, err := store.GetChatByAPIKey(key)
			if errors.Is(err, storage.ErrNotFound) || (err == nil && c.ID != chi.URLParam(r, "id")) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid chat API key")
				return
			}
			if err != nil {
				respondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

func handleLogin(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		sess, err := deps.Auth.Login(req.Password)
		if errors.Is(err, auth.ErrUnauthorized) {
			httpError(w, http.StatusUnauthorized, "authentication_error", "invalid password")
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}

		writeJSON(w, map[string]string{"token": sess.Token})
	}
}
