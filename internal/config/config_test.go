package config

import (
	"path/filepath"
	"strings"
	"testing"
)

// mockKeychain is a test double for the keychain interface.
type mockKeychain struct {
	value string
	err   error
}

func (m mockKeychain) Get(service, account string) (string, error) {
	return m.value, m.err
}

// memBackend is an in-memory ConfigBackend for tests.
type memBackend struct {
	strings map[string]string
	ints    map[string]int
}

func newMemBackend() *memBackend {
	return &memBackend{strings: make(map[string]string), ints: make(map[string]int)}
}

func (m *memBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *memBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *memBackend) SetString(key, val string) error { m.strings[key] = val; return nil }
func (m *memBackend) SetInt(key string, val int) error { m.ints[key] = val; return nil }
func (m *memBackend) Delete(key string) error {
	delete(m.strings, key)
	delete(m.ints, key)
	return nil
}

func TestDefaults(t *testing.T) {
	cfg, err := loadWith(newMemBackend(), mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8787 {
		t.Errorf("Server.Port = %d, want 8787", cfg.Server.Port)
	}
	if cfg.Model.Name != "gemini-2.5-flash" {
		t.Errorf("Model.Name = %q, want %q", cfg.Model.Name, "gemini-2.5-flash")
	}
	if cfg.Chat.HistoryLimit != 40 {
		t.Errorf("Chat.HistoryLimit = %d, want 40", cfg.Chat.HistoryLimit)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Storage.BlobDir != filepath.Join(cfg.Storage.DataDir, "blobs") {
		t.Errorf("Storage.BlobDir = %q, want it under the data dir", cfg.Storage.BlobDir)
	}
}

func TestBackendValues(t *testing.T) {
	b := newMemBackend()
	b.SetInt("server.port", 9999)
	b.SetString("model.name", "gemini-2.5-pro")
	b.SetInt("chat.history_limit", 10)

	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Model.Name != "gemini-2.5-pro" {
		t.Errorf("Model.Name = %q", cfg.Model.Name)
	}
	if cfg.Chat.HistoryLimit != 10 {
		t.Errorf("Chat.HistoryLimit = %d, want 10", cfg.Chat.HistoryLimit)
	}
}

func TestEnvOverride(t *testing.T) {
	b := newMemBackend()
	b.SetInt("server.port", 9999)

	t.Setenv("SOLOCHAT_SERVER_PORT", "7070")
	t.Setenv("SOLOCHAT_MASTER_PASSWORD", "env-secret")

	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Auth.MasterPassword != "env-secret" {
		t.Errorf("Auth.MasterPassword = %q, want env value", cfg.Auth.MasterPassword)
	}
}

func TestMissingMasterPasswordIsNotAnError(t *testing.T) {
	t.Setenv("SOLOCHAT_MASTER_PASSWORD", "")

	cfg, err := loadWith(newMemBackend(), mockKeychain{})
	if err != nil {
		t.Fatalf("load failed without master password: %v", err)
	}
	if cfg.Auth.MasterPassword != "" {
		t.Errorf("Auth.MasterPassword = %q, want empty", cfg.Auth.MasterPassword)
	}
}

func TestKeychainFallback(t *testing.T) {
	t.Setenv("SOLOCHAT_MASTER_PASSWORD", "")

	cfg, err := loadWith(newMemBackend(), mockKeychain{value: "vault-secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.MasterPassword != "vault-secret" {
		t.Errorf("Auth.MasterPassword = %q, want keychain value", cfg.Auth.MasterPassword)
	}
}

func TestShowAllExcludesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Auth.MasterPassword = "super-secret"

	for _, info := range ShowAll(cfg) {
		if strings.Contains(info.Value, "super-secret") {
			t.Errorf("ShowAll leaked a secret via key %s", info.Key)
		}
		if info.Key == "auth.master_password" {
			t.Error("ShowAll listed the master password key")
		}
	}
}

func TestSetKeyRejectsSecrets(t *testing.T) {
	err := SetKey("auth.master_password", "nope")
	if err == nil {
		t.Fatal("SetKey accepted a secret key")
	}
	if !strings.Contains(err.Error(), "SOLOCHAT_MASTER_PASSWORD") {
		t.Errorf("error %q does not point at the env var", err)
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	if len(keys) == 0 {
		t.Fatal("no valid keys")
	}
	for _, k := range keys {
		if k == "auth.master_password" {
			t.Error("ValidKeys includes a secret")
		}
	}
}
