// Package narrative produces short stories about chess pieces. A Generator
// talks to a text source. A Teller wraps one and turns every failure into a
// friendly placeholder, so callers always get something to show.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pawn-school/internal/chess"
)

// ErrUnavailable means no story source is configured.
var ErrUnavailable = errors.New("narrative: no story source configured")

// Placeholders shown instead of a story.
const (
	UnavailableText = "Sorry, I can't tell a story right now."
	FailureText     = "Sorry, something went wrong while making the story. Please try again."
)

// Generator produces a story for a piece type.
type Generator interface {
	Generate(ctx context.Context, piece chess.PieceType) (string, error)
}

var pieceTraits = map[chess.PieceType]string{
	chess.Knight: "a friendly chess knight who loves to jump",
	chess.Rook:   "a strong chess rook who moves in straight lines",
	chess.Pawn:   "a brave little chess pawn who can only move forward",
	chess.Bishop: "a silly chess bishop who only slides sideways",
	chess.Queen:  "a powerful chess queen who can go anywhere she wants",
	chess.King:   "a careful chess king who only takes one step at a time",
}

// Prompt builds the request text for a piece. language may be empty.
func Prompt(piece chess.PieceType, language string) (string, error) {
	trait, ok := pieceTraits[piece]
	if !ok {
		return "", fmt.Errorf("narrative: no story for piece %q", piece)
	}
	p := fmt.Sprintf("Tell me a fun, one-sentence story for a 5-year-old about %s. Keep it very simple and encouraging.", trait)
	if language != "" {
		p += fmt.Sprintf(" Please respond in %s.", language)
	}
	return p, nil
}

// Unavailable is the generator used when stories are switched off.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, chess.PieceType) (string, error) {
	return "", ErrUnavailable
}

// Teller asks a Generator for stories and never fails.
type Teller struct {
	gen    Generator
	logger *log.Logger
}

// NewTeller creates a Teller. A nil generator means Unavailable and a nil
// logger discards messages.
func NewTeller(gen Generator, logger *log.Logger) *Teller {
	if gen == nil {
		gen = Unavailable{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Teller{gen: gen, logger: logger}
}

// Tell returns a story for piece, or a placeholder.
func (t *Teller) Tell(ctx context.Context, piece chess.PieceType) string {
	story, err := t.gen.Generate(ctx, piece)
	switch {
	case errors.Is(err, ErrUnavailable):
		return UnavailableText
	case err != nil:
		t.logger.Error("story generation failed", "piece", piece, "err", err)
		return FailureText
	case story == "":
		t.logger.Warn("empty story", "piece", piece)
		return FailureText
	}
	return story
}
