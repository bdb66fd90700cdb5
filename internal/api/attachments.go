package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"solochat/internal/storage"
)

const maxUploadSize = 32 << 20 // 32MB

func handleListAttachments(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "id")
		if _, err := deps.Store.GetChat(chatID); err != nil {
			respondError(w, err)
			return
		}

		atts, err := deps.Store.ListAttachments(chatID)
		if err != nil {
			respondError(w, err)
			return
		}
		if atts == nil {
			atts = []storage.Attachment{}
		}
		writeJSON(w, atts)
	}
}

// handleUploadAttachment stores the payload in the blob store and records
// metadata. Payloads are opaque: nothing ever parses them, only name and
// MIME type reach the model as context.
func handleUploadAttachment(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "id")
		if _, err := deps.Store.GetChat(chatID); err != nil {
			respondError(w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "multipart field %q is required: %v", "file", err)
			return
		}
		defer file.Close()

		name := filepath.Base(header.Filename)
		if name == "" || name == "." || name == "/" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "attachment filename is required")
			return
		}
		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		key := fmt.Sprintf("%s/%d-%s-%s", chatID, time.Now().UnixMilli(), uuid.NewString()[:8], name)
		if err := deps.Blobs.Put(key, file); err != nil {
			respondError(w, err)
			return
		}

		att, err := deps.Store.CreateAttachment(storage.Attachment{
			ChatID:    chatID,
			Name:      name,
			MimeType:  mimeType,
			BlobKey:   key,
			CreatedAt: time.Now().Unix(),
		})
		if err != nil {
			// The metadata row is the source of truth; without it the
			// blob is unreachable, so clean it up.
			if derr := deps.Blobs.Delete(key); derr != nil {
				slog.Warn("orphaned blob cleanup failed", "blob_key", key, "error", derr)
			}
			respondError(w, err)
			return
		}
		writeJSON(w, att)
	}
}
