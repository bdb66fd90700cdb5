// Package api is the HTTP surface of the server: the operator routes behind
// bearer-session auth, the per-chat external routes behind the chat API key,
// and the stdio MCP surface.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"solochat/internal/auth"
	"solochat/internal/blob"
	"solochat/internal/chat"
	"solochat/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds the collaborators handlers need. Handlers keep no state of
// their own; everything shared lives in the store and the blob store.
type Deps struct {
	Store *storage.Store
	Auth  *auth.Authority
	Blobs blob.Store
	Turns *chat.Assembler
}

// NewHandler returns the complete HTTP handler.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", handleLogin(deps))

		// Operator surface: bearer session.
		r.Group(func(r chi.Router) {
			r.Use(SessionAuth(deps.Auth))

			r.Get("/settings", handleGetSettings(deps))
			r.Post("/settings", handleUpdateSettings(deps))

			r.Get("/chats", handleListChats(deps))
			r.Post("/chats", handleCreateChat(deps))

			r.Get("/folders", handleListFolders(deps))
			r.Post("/folders", handleCreateFolder(deps))
			r.Put("/folders/{id}", handleUpdateFolder(deps))
			r.Delete("/folders/{id}", handleDeleteFolder(deps))
		})

		r.Route("/chats/{id}", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(SessionAuth(deps.Auth))

				r.Get("/settings", handleChatSettings(deps))
				r.Put("/settings", handleUpdateChat(deps))
				r.Post("/delete", handleDeleteChat(deps))
				r.Get("/messages", handleListMessages(deps))
				r.Post("/messages", handlePostMessage(deps))
				r.Get("/attachments", handleListAttachments(deps))
				r.Post("/attachments", handleUploadAttachment(deps))
			})

			// External surface: per-chat key, scoped to exactly this chat.
			r.Route("/external", func(r chi.Router) {
				r.Use(ChatKeyAuth(deps.Store))

				r.Post("/", handlePostMessage(deps))
				r.Get("/messages", handleListMessages(deps))
				r.Get("/attachments", handleListAttachments(deps))
			})
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
