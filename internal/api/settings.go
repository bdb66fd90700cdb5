package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"solochat/internal/chat"
	"solochat/internal/storage"
)

// thirdPartyKeySetting is the optional automation-service key the operator
// may store alongside the model key.
const thirdPartyKeySetting = "python_anywhere_key"

// handleGetSettings reports only whether each secret is configured. Secret
// values never leave the server once set.
func handleGetSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		geminiSet, err := settingExists(deps.Store, chat.ModelKeySetting)
		if err != nil {
			respondError(w, err)
			return
		}
		thirdPartySet, err := settingExists(deps.Store, thirdPartyKeySetting)
		if err != nil {
			respondError(w, err)
			return
		}

		writeJSON(w, map[string]bool{
			"geminiApiKeySet":      geminiSet,
			"pythonAnywhereKeySet": thirdPartySet,
		})
	}
}

func settingExists(store *storage.Store, key string) (bool, error) {
	_, err := store.GetSetting(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type updateSettingsRequest struct {
	GeminiAPIKey      string `json:"geminiApiKey"`
	PythonAnywhereKey string `json:"pythonAnywhereKey"`
}

func handleUpdateSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req updateSettingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		if v := strings.TrimSpace(req.GeminiAPIKey); v != "" {
			if err := deps.Store.SetSetting(chat.ModelKeySetting, v); err != nil {
				respondError(w, err)
				return
			}
		}
		if v := strings.TrimSpace(req.PythonAnywhereKey); v != "" {
			if err := deps.Store.SetSetting(thirdPartyKeySetting, v); err != nil {
				respondError(w, err)
				return
			}
		}

		writeJSON(w, map[string]bool{"ok": true})
	}
}
