package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"solochat/internal/auth"
	"solochat/internal/chat"
	"solochat/internal/gemini"
	"solochat/internal/storage"
)

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

// respondError translates a domain error into the HTTP error taxonomy. Every
// handler funnels its failures through here so nothing propagates raw.
func respondError(w http.ResponseWriter, err error) {
	var upstream *gemini.UpstreamError

	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing credential")
	case errors.Is(err, auth.ErrNoMasterPassword):
		httpError(w, http.StatusInternalServerError, "configuration_error",
			"master password not configured; set SOLOCHAT_MASTER_PASSWORD")
	case errors.Is(err, chat.ErrModelKeyNotSet):
		httpError(w, http.StatusInternalServerError, "configuration_error",
			"model API key not set; configure it in settings")
	case errors.Is(err, chat.ErrEmptyMessage):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
	case errors.Is(err, storage.ErrFolderCycle):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "folder parent would create a cycle")
	case errors.Is(err, storage.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found", "not found")
	case errors.As(err, &upstream):
		httpError(w, http.StatusBadGateway, "upstream_error", "%v", upstream)
	default:
		httpError(w, http.StatusInternalServerError, "api_error", "internal error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// parseIntParam reads an integer query parameter with a default and an upper
// bound (0 = unbounded).
func parseIntParam(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
