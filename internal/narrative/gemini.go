package narrative

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/vovakirdan/pawn-school/internal/chess"
)

// Gemini defaults.
const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel    = "gemini-2.5-flash"
)

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey          string
	Endpoint        string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	ThinkingBudget  int
	Timeout         time.Duration
	Language        string
}

// DefaultGeminiConfig returns the settings used by the original story feature.
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		Endpoint:        DefaultGeminiEndpoint,
		Model:           DefaultGeminiModel,
		Temperature:     0.8,
		MaxOutputTokens: 50,
		ThinkingBudget:  25,
		Timeout:         15 * time.Second,
	}
}

// Gemini generates stories with the Gemini API.
type Gemini struct {
	cfg        GeminiConfig
	httpClient *http.Client

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini creates a Gemini generator. Empty fields fall back to defaults.
// Without an API key the generator reports ErrUnavailable.
func NewGemini(cfg GeminiConfig, httpClient *http.Client) *Gemini {
	def := DefaultGeminiConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = def.MaxOutputTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Gemini{cfg: cfg, httpClient: httpClient}
}

// genaiClient builds the SDK client on first use.
func (g *Gemini) genaiClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     g.cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(g.cfg.Endpoint, "/") + "/",
			APIVersion: "v1beta",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("narrative: gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

// generateConfig maps the story settings onto the SDK request config.
func (g *Gemini) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.cfg.Temperature)),
		MaxOutputTokens: int32(g.cfg.MaxOutputTokens),
	}
	if g.cfg.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(g.cfg.ThinkingBudget)),
		}
	}
	return cfg
}

func (g *Gemini) Generate(ctx context.Context, piece chess.PieceType) (string, error) {
	if g.cfg.APIKey == "" {
		return "", ErrUnavailable
	}
	prompt, err := Prompt(piece, g.cfg.Language)
	if err != nil {
		return "", err
	}

	client, err := g.genaiClient(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), g.generateConfig())
	if err != nil {
		return "", fmt.Errorf("narrative: gemini request: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
