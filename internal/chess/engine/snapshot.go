package engine

import (
	"github.com/vovakirdan/pawn-school/internal/chess"
	"github.com/vovakirdan/pawn-school/internal/chess/levels"
)

// PlacedPiece is a piece with its square, used in snapshots.
type PlacedPiece struct {
	Position chess.Position `json:"position"`
	Piece    chess.Piece    `json:"piece"`
}

// Snapshot captures the visible engine state as plain values.
type Snapshot struct {
	LevelIndex    int              `json:"level_index"`
	Level         levels.Level     `json:"level"`
	Kind          levels.Kind      `json:"kind"`
	Pieces        []PlacedPiece    `json:"pieces"`
	Selection     *Selection       `json:"selection,omitempty"`
	PossibleMoves []chess.Position `json:"possible_moves"`
	Target        chess.Position   `json:"target"`
	Won           bool             `json:"won"`
	Wins          []int            `json:"wins"`
	Unlocked      []bool           `json:"unlocked"`
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	level := e.Level()
	s := Snapshot{
		LevelIndex:    e.levelIndex,
		Level:         level,
		Kind:          level.Kind(),
		Pieces:        []PlacedPiece{},
		PossibleMoves: e.PossibleMoves(),
		Target:        e.target,
		Won:           e.won,
		Wins:          e.WinsByLevel(),
		Unlocked:      e.Unlocked(),
	}
	if s.PossibleMoves == nil {
		s.PossibleMoves = []chess.Position{}
	}
	for _, pos := range e.board.Occupied() {
		s.Pieces = append(s.Pieces, PlacedPiece{Position: pos, Piece: *e.board.PieceAt(pos)})
	}
	if sel, ok := e.Selection(); ok {
		s.Selection = &sel
	}
	return s
}
