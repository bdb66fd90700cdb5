package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"solochat/internal/auth"
	"solochat/internal/blob"
	"solochat/internal/storage"
)

const defaultChatTitle = "Untitled chat"

// blobPurgeConcurrency bounds the parallel best-effort blob deletes during
// chat deletion.
const blobPurgeConcurrency = 8

// chatSummary is the listing shape: no API key, no system prompt.
type chatSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	FolderID  *string `json:"folder_id"`
	CreatedAt int64   `json:"created_at"`
}

func handleListChats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chats, err := deps.Store.ListChats()
		if err != nil {
			respondError(w, err)
			return
		}

		summaries := make([]chatSummary, len(chats))
		for i, c := range chats {
			summaries[i] = chatSummary{ID: c.ID, Title: c.Title, FolderID: c.FolderID, CreatedAt: c.CreatedAt}
		}
		writeJSON(w, summaries)
	}
}

type createChatRequest struct {
	Title        string  `json:"title"`
	FolderID     *string `json:"folderId"`
	SystemPrompt string  `json:"systemPrompt"`
}

func handleCreateChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req createChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		c := storage.Chat{
			ID:        uuid.NewString(),
			Title:     strings.TrimSpace(req.Title),
			FolderID:  req.FolderID,
			APIKey:    auth.NewChatAPIKey(),
			CreatedAt: time.Now().Unix(),
		}
		if c.Title == "" {
			c.Title = defaultChatTitle
		}
		if prompt := strings.TrimSpace(req.SystemPrompt); prompt != "" {
			c.SystemPrompt = &prompt
		}

		if err := deps.Store.CreateChat(c); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, c)
	}
}

// handleChatSettings returns the full chat record, external API key included.
// Operator surface only.
func handleChatSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := deps.Store.GetChat(chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, c)
	}
}

type updateChatRequest struct {
	Title            *string         `json:"title"`
	FolderID         json.RawMessage `json:"folder_id"`
	SystemPrompt     *string         `json:"system_prompt"`
	RegenerateAPIKey bool            `json:"regenerateApiKey"`
}

func handleUpdateChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req updateChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		upd := storage.ChatUpdate{
			Title:        req.Title,
			SystemPrompt: req.SystemPrompt,
		}

		// folder_id distinguishes absent (leave alone), null (move to
		// root), and a folder id.
		if len(req.FolderID) > 0 {
			if string(req.FolderID) == "null" {
				upd.ClearFolder = true
			} else {
				var folderID string
				if err := json.Unmarshal(req.FolderID, &folderID); err != nil {
					httpError(w, http.StatusBadRequest, "invalid_request_error", "folder_id must be a string or null")
					return
				}
				upd.FolderID = &folderID
			}
		}

		if req.RegenerateAPIKey {
			key := auth.NewChatAPIKey()
			upd.APIKey = &key
		}

		c, err := deps.Store.UpdateChat(chi.URLParam(r, "id"), upd)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, c)
	}
}

// handleDeleteChat removes a chat. Blob payloads go first, best-effort and
// concurrently: a failed blob delete is logged and never blocks the
// deletion (an orphaned blob beats an undeletable chat). The rows then go
// in one transaction.
func handleDeleteChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		atts, err := deps.Store.ListAttachments(id)
		if err != nil {
			respondError(w, err)
			return
		}

		var g errgroup.Group
		g.SetLimit(blobPurgeConcurrency)
		for _, a := range atts {
			g.Go(func() error {
				if err := deps.Blobs.Delete(a.BlobKey); err != nil && !errors.Is(err, blob.ErrNotFound) {
					slog.Warn("blob delete failed", "chat_id", id, "blob_key", a.BlobKey, "error", err)
				}
				return nil
			})
		}
		g.Wait()

		if err := deps.Store.DeleteChat(id); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}
