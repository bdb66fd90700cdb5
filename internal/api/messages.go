package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"solochat/internal/storage"
)

const (
	defaultMessageLimit = 200
	maxMessageLimit     = 1000
)

func handleListMessages(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "id")
		if _, err := deps.Store.GetChat(chatID); err != nil {
			respondError(w, err)
			return
		}

		limit := parseIntParam(r, "limit", defaultMessageLimit, maxMessageLimit)
		msgs, err := deps.Store.ListMessages(chatID, limit)
		if err != nil {
			respondError(w, err)
			return
		}
		if msgs == nil {
			msgs = []storage.Message{}
		}
		writeJSON(w, msgs)
	}
}

type postMessageRequest struct {
	Message string `json:"message"`
}

func handlePostMessage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req postMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		reply, err := deps.Turns.Send(r.Context(), chi.URLParam(r, "id"), req.Message)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, map[string]string{"reply": reply})
	}
}
