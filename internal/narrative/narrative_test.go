package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/pawn-school/internal/chess"
)

func TestPrompt(t *testing.T) {
	for _, pt := range chess.PieceTypes() {
		p, err := Prompt(pt, "Spanish")
		if !pt.IsMovable() {
			if err == nil {
				t.Errorf("Prompt(%s) should fail", pt)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Prompt(%s): %v", pt, err)
		}
		if !strings.Contains(p, "one-sentence story") || !strings.HasSuffix(p, "Please respond in Spanish.") {
			t.Errorf("Prompt(%s) = %q", pt, p)
		}
	}

	p, _ := Prompt(chess.Knight, "")
	if strings.Contains(p, "respond in") {
		t.Errorf("prompt without language = %q", p)
	}
}

type stubGenerator struct {
	story string
	err   error
}

func (s stubGenerator) Generate(context.Context, chess.PieceType) (string, error) {
	return s.story, s.err
}

func TestTeller(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
		want string
	}{
		{"story", stubGenerator{story: "Once upon a time."}, "Once upon a time."},
		{"unavailable", Unavailable{}, UnavailableText},
		{"nil generator", nil, UnavailableText},
		{"failure", stubGenerator{err: errors.New("boom")}, FailureText},
		{"empty", stubGenerator{}, FailureText},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			teller := NewTeller(tc.gen, nil)
			if got := teller.Tell(context.Background(), chess.Rook); got != tc.want {
				t.Errorf("Tell() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCanned(t *testing.T) {
	c := NewCanned(1)
	for _, pt := range chess.PieceTypes() {
		story, err := c.Generate(context.Background(), pt)
		if pt.IsMovable() && (err != nil || story == "") {
			t.Errorf("Generate(%s) = %q, %v", pt, story, err)
		}
		if !pt.IsMovable() && err == nil {
			t.Errorf("Generate(%s) should fail", pt)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Generate(ctx, chess.Knight); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Generate err = %v", err)
	}
}

// generateRequest is the part of a generateContent body the tests inspect.
type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
		ThinkingConfig  *struct {
			ThinkingBudget int `json:"thinkingBudget"`
		} `json:"thinkingConfig"`
	} `json:"generationConfig"`
}

func TestGeminiRequest(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/v1beta/models/gemini-2.5-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Errorf("api key header = %q", r.Header.Get("x-goog-api-key"))
		}
		if r.URL.Query().Get("key") != "" {
			t.Error("api key must not be sent in the query string")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":" The knight jumped for joy! "}]}}]}`)
	}))
	defer srv.Close()

	cfg := DefaultGeminiConfig()
	cfg.APIKey = "secret"
	cfg.Endpoint = srv.URL
	g := NewGemini(cfg, srv.Client())

	story, err := g.Generate(context.Background(), chess.Knight)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if story != "The knight jumped for joy!" {
		t.Errorf("story = %q", story)
	}

	gc := got.GenerationConfig
	if math.Abs(gc.Temperature-0.8) > 1e-6 || gc.MaxOutputTokens != 50 || gc.ThinkingConfig == nil || gc.ThinkingConfig.ThinkingBudget != 25 {
		t.Errorf("generationConfig = %+v", gc)
	}
	if len(got.Contents) != 1 || len(got.Contents[0].Parts) == 0 || !strings.Contains(got.Contents[0].Parts[0].Text, "knight") {
		t.Errorf("contents = %+v", got.Contents)
	}
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`},
		{"bad json", http.StatusOK, `not json`},
		{"server error", http.StatusInternalServerError, `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			g := NewGemini(GeminiConfig{APIKey: "k", Endpoint: srv.URL}, srv.Client())
			if _, err := g.Generate(context.Background(), chess.Rook); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGeminiWithoutKey(t *testing.T) {
	g := NewGemini(GeminiConfig{}, nil)
	if _, err := g.Generate(context.Background(), chess.Rook); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if g.cfg.Model != DefaultGeminiModel || g.cfg.Timeout != 15*time.Second {
		t.Errorf("defaults not applied: %+v", g.cfg)
	}
}

func TestGeminiTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	g := NewGemini(GeminiConfig{APIKey: "secret-key", Endpoint: srv.URL}, srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.Generate(ctx, chess.Queen)
	if err == nil {
		t.Fatal("expected a timeout")
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Errorf("error leaks the key: %v", err)
	}
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  bool
	}{
		{ProviderGemini, false},
		{ProviderCanned, false},
		{ProviderNone, false},
		{"", false},
		{"openai", true},
	}
	for _, tc := range tests {
		gen, err := NewGenerator(tc.provider, GeminiConfig{}, 1)
		if (err != nil) != tc.wantErr {
			t.Errorf("NewGenerator(%q) err = %v", tc.provider, err)
		}
		if err == nil && gen == nil {
			t.Errorf("NewGenerator(%q) returned nil", tc.provider)
		}
	}
}
