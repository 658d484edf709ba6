// Package config provides YAML-based configuration loading for Pawn School.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pawn-school/internal/narrative"
)

// AppConfig is the complete application configuration.
type AppConfig struct {
	Profile   string          `yaml:"profile"`
	Storage   StorageConfig   `yaml:"storage"`
	Levels    LevelsConfig    `yaml:"levels"`
	Narrative NarrativeConfig `yaml:"narrative"`
	TUI       TUIConfig       `yaml:"tui"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LevelsConfig points at an optional level catalog file.
type LevelsConfig struct {
	Path string `yaml:"path"`
}

// NarrativeConfig selects and tunes the story provider.
type NarrativeConfig struct {
	Provider        string        `yaml:"provider"` // "gemini", "canned" or "none"
	APIKeyEnv       string        `yaml:"api_key_env"`
	Model           string        `yaml:"model"`
	Endpoint        string        `yaml:"endpoint"`
	Temperature     float64       `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	ThinkingBudget  int           `yaml:"thinking_budget"`
	Timeout         time.Duration `yaml:"timeout"`
	Language        string        `yaml:"language"`
}

// TUIConfig tunes the terminal UI.
type TUIConfig struct {
	TickRate int `yaml:"tick_rate"` // frames per second
}

// ServerConfig configures the SSH and HTTP servers.
type ServerConfig struct {
	SSHAddr     string        `yaml:"ssh_addr"`
	HTTPAddr    string        `yaml:"http_addr"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// APIKey reads the story provider key from the configured environment variable.
func (n NarrativeConfig) APIKey() string {
	if n.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(n.APIKeyEnv)
}

// Gemini converts the section into the Gemini client configuration.
func (n NarrativeConfig) Gemini() narrative.GeminiConfig {
	return narrative.GeminiConfig{
		APIKey:          n.APIKey(),
		Endpoint:        n.Endpoint,
		Model:           n.Model,
		Temperature:     n.Temperature,
		MaxOutputTokens: n.MaxOutputTokens,
		ThinkingBudget:  n.ThinkingBudget,
		Timeout:         n.Timeout,
		Language:        n.Language,
	}
}

// LogLevel parses the configured log level.
func (c AppConfig) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: %w", err)
	}
	return lvl, nil
}

// Validate checks values that would break the application at runtime.
func (c AppConfig) Validate() error {
	if c.Profile == "" {
		return fmt.Errorf("config: profile must not be empty")
	}
	switch c.Narrative.Provider {
	case narrative.ProviderGemini, narrative.ProviderCanned, narrative.ProviderNone, "":
	default:
		return fmt.Errorf("config: unknown narrative provider %q", c.Narrative.Provider)
	}
	if c.TUI.TickRate <= 0 || c.TUI.TickRate > 120 {
		return fmt.Errorf("config: tui.tick_rate must be in 1..120, got %d", c.TUI.TickRate)
	}
	if c.Narrative.Temperature < 0 || c.Narrative.Temperature > 2 {
		return fmt.Errorf("config: narrative.temperature must be in 0..2, got %g", c.Narrative.Temperature)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}
