package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"solochat/internal/storage"
)

func handleListFolders(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders, err := deps.Store.ListFolders()
		if err != nil {
			respondError(w, err)
			return
		}
		if folders == nil {
			folders = []storage.Folder{}
		}
		writeJSON(w, folders)
	}
}

type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

func handleCreateFolder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req createFolderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "folder name is required")
			return
		}

		f := storage.Folder{
			ID:       uuid.NewString(),
			Name:     name,
			ParentID: req.ParentID,
		}
		if err := deps.Store.CreateFolder(f); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, f)
	}
}

type updateFolderRequest struct {
	Name     *string         `json:"name"`
	ParentID json.RawMessage `json:"parent_id"`
}

func handleUpdateFolder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req updateFolderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		upd := storage.FolderUpdate{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "folder name cannot be empty")
				return
			}
			upd.Name = &name
		}

		// parent_id: absent leaves it alone, null moves to root, a
		// string re-parents.
		if len(req.ParentID) > 0 {
			if string(req.ParentID) == "null" {
				upd.ClearParent = true
			} else {
				var parentID string
				if err := json.Unmarshal(req.ParentID, &parentID); err != nil {
					httpError(w, http.StatusBadRequest, "invalid_request_error", "parent_id must be a string or null")
					return
				}
				upd.ParentID = &parentID
			}
		}

		f, err := deps.Store.UpdateFolder(chi.URLParam(r, "id"), upd)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, f)
	}
}

func handleDeleteFolder(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.DeleteFolder(chi.URLParam(r, "id")); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}
}
