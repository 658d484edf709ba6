package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/pawnschool.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration. It matches the
// embedded default file.
func DefaultConfig() AppConfig {
	return AppConfig{
		Profile: "player",
		Storage: StorageConfig{
			DBPath: "~/.pawnschool/pawnschool.db",
		},
		Narrative: NarrativeConfig{
			Provider:        "canned",
			APIKeyEnv:       "GEMINI_API_KEY",
			Model:           "gemini-2.5-flash",
			Endpoint:        "https://generativelanguage.googleapis.com",
			Temperature:     0.8,
			MaxOutputTokens: 50,
			ThinkingBudget:  25,
			Timeout:         15 * time.Second,
		},
		TUI: TUIConfig{
			TickRate: 30,
		},
		Server: ServerConfig{
			SSHAddr:     ":23234",
			HTTPAddr:    ":8080",
			HostKeyPath: "~/.pawnschool/ssh_host_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}
