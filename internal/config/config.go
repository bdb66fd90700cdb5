package config

import (
	"path/filepath"
	"strings"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Model   ModelConfig
	Chat    ChatConfig
	Log     LogConfig
	Auth    AuthConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
	BlobDir string
}

type ModelConfig struct {
	Name    string
	BaseURL string
}

type ChatConfig struct {
	HistoryLimit int
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	// MasterPassword is secret-only: environment variable or platform
	// keychain, never the config backend. Empty is a valid state; login
	// attempts then fail with a configuration error instead of the
	// server refusing to start.
	MasterPassword string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port: 8787,
		},
		Storage: StorageConfig{
			DataDir: dataDir,
			BlobDir: filepath.Join(dataDir, "blobs"),
		},
		Model: ModelConfig{
			Name: "gemini-2.5-flash",
		},
		Chat: ChatConfig{
			HistoryLimit: 40,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.solochat.app) and the
// master password falls back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/solochat/config.json
// and secrets must be provided via environment variables.
//
// Environment variables (SOLOCHAT_*) override backend values on all
// platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try platform keychain for the master password if still empty. A
	// missing master password is not a load error: the server runs and
	// rejects logins until it is set.
	if cfg.Auth.MasterPassword == "" {
		if pw, err := kc.Get("solochat", "master_password"); err == nil && pw != "" {
			cfg.Auth.MasterPassword = pw
		}
	}

	if cfg.Storage.BlobDir == "" {
		cfg.Storage.BlobDir = filepath.Join(cfg.Storage.DataDir, "blobs")
	}

	return cfg, nil
}

// keychainReader reads from macOS Keychain via the security CLI.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
