// Package chess contains the board model and move rules for Pawn School.
// It has no external dependencies and never touches game or level state,
// which keeps every function here pure and easy to test.
package chess

import "fmt"

// PieceType identifies a movable piece or a decoration placed on the board.
type PieceType string

// Movable piece types.
const (
	Knight PieceType = "knight"
	Rook   PieceType = "rook"
	Pawn   PieceType = "pawn"
	Bishop PieceType = "bishop"
	Queen  PieceType = "queen"
	King   PieceType = "king"
)

// Decoration types. They mark targets and never move.
const (
	Star    PieceType = "star"
	Castle  PieceType = "castle"
	Crown   PieceType = "crown"
	Diamond PieceType = "diamond"
	Shield  PieceType = "shield"
	Home    PieceType = "home"
)

var allPieceTypes = []PieceType{
	Knight, Rook, Pawn, Bishop, Queen, King,
	Star, Castle, Crown, Diamond, Shield, Home,
}

// IsMovable reports whether the type has a move set.
func (t PieceType) IsMovable() bool {
	switch t {
	case Knight, Rook, Pawn, Bishop, Queen, King:
		return true
	default:
		return false
	}
}

// IsDecoration reports whether the type is a target/decoration kind.
func (t PieceType) IsDecoration() bool {
	switch t {
	case Star, Castle, Crown, Diamond, Shield, Home:
		return true
	default:
		return false
	}
}

// Valid reports whether t is one of the known types.
func (t PieceType) Valid() bool {
	return t.IsMovable() || t.IsDecoration()
}

// ParsePieceType converts a string to a PieceType.
func ParsePieceType(s string) (PieceType, error) {
	t := PieceType(s)
	if !t.Valid() {
		return "", fmt.Errorf("chess: unknown piece type %q", s)
	}
	return t, nil
}

// PieceTypes returns every known piece type, movable pieces first.
func PieceTypes() []PieceType {
	out := make([]PieceType, len(allPieceTypes))
	copy(out, allPieceTypes)
	return out
}

// Color is the side a piece belongs to.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// ParseColor converts a string to a Color.
func ParseColor(s string) (Color, error) {
	switch Color(s) {
	case White, Black:
		return Color(s), nil
	default:
		return "", fmt.Errorf("chess: unknown color %q", s)
	}
}

// Piece is an immutable value placed on a square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// NewPiece returns a piece of the given type and color.
func NewPiece(t PieceType, c Color) Piece {
	return Piece{Type: t, Color: c}
}

// IsWhite reports whether the piece is controlled by the player.
func (p Piece) IsWhite() bool {
	return p.Color == White
}

func (p Piece) String() string {
	return string(p.Color) + " " + string(p.Type)
}
