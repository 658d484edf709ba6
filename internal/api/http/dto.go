package http

import (
	"github.com/vovakirdan/pawn-school/internal/chess"
	"github.com/vovakirdan/pawn-school/internal/chess/engine"
	"github.com/vovakirdan/pawn-school/internal/chess/levels"
)

// CreateSessionRequest represents the payload for POST /sessions.
type CreateSessionRequest struct {
	Profile string `json:"profile"`
	Seed    int64  `json:"seed"`
}

// LevelRequest represents the payload for POST /sessions/:id/level.
// Force jumps to the level even when it is locked.
type LevelRequest struct {
	Level *int `json:"level" binding:"required"`
	Force bool `json:"force"`
}

// WinsResetRequest represents the payload for POST /sessions/:id/wins/reset.
type WinsResetRequest struct {
	Level *int `json:"level" binding:"required"`
}

// PositionRequest is a board square.
type PositionRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

func (p PositionRequest) position() chess.Position {
	return chess.P(*p.Row, *p.Col)
}

// MoveRequest represents the payload for POST /sessions/:id/move.
type MoveRequest struct {
	From PositionRequest `json:"from"`
	To   PositionRequest `json:"to"`
}

// SessionResponse is returned by every session endpoint.
type SessionResponse struct {
	ID      string          `json:"id"`
	Profile string          `json:"profile"`
	State   engine.Snapshot `json:"state"`
}

// MoveResponse reports whether a move was applied.
type MoveResponse struct {
	SessionResponse
	Moved bool `json:"moved"`
}

// LevelDTO describes one catalog entry.
type LevelDTO struct {
	Index       int             `json:"index"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Kind        levels.Kind     `json:"kind"`
	Piece       chess.PieceType `json:"piece"`
	Target      chess.PieceType `json:"target"`
	Setups      int             `json:"setups,omitempty"`
}

// StoryResponse carries a story about the session's current piece.
type StoryResponse struct {
	Piece chess.PieceType `json:"piece"`
	Story string          `json:"story"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string           `json:"error"`
	State *engine.Snapshot `json:"state,omitempty"`
}

func levelDTOs(c *levels.Catalog) []LevelDTO {
	out := make([]LevelDTO, 0, c.Len())
	for i, l := range c.All() {
		out = append(out, LevelDTO{
			Index:       i,
			Name:        l.Name,
			Description: l.Description,
			Kind:        l.Kind(),
			Piece:       l.Piece,
			Target:      l.Target,
			Setups:      len(l.Setups),
		})
	}
	return out
}
