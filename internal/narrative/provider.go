package narrative

import "fmt"

// Provider names accepted in configuration.
const (
	ProviderGemini = "gemini"
	ProviderCanned = "canned"
	ProviderNone   = "none"
)

// NewGenerator builds the generator for a provider name. An empty name
// means ProviderNone. A gemini provider without a key is still returned and
// answers with ErrUnavailable.
func NewGenerator(provider string, gemini GeminiConfig, seed int64) (Generator, error) {
	switch provider {
	case ProviderGemini:
		return NewGemini(gemini, nil), nil
	case ProviderCanned:
		return NewCanned(seed), nil
	case ProviderNone, "":
		return Unavailable{}, nil
	default:
		return nil, fmt.Errorf("narrative: unknown provider %q", provider)
	}
}
