package chess

import (
	"fmt"
	"strings"
)

// BoardSize is the fixed width and height of the board.
const BoardSize = 6

// Position is a square coordinate. Row 0 is the top of the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// P is a shorthand constructor for Position.
func P(row, col int) Position {
	return Position{Row: row, Col: col}
}

// InBounds reports whether the position lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Add returns the position shifted by a delta.
func (p Position) Add(d Delta) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Square holds an optional piece. Position is fixed at board creation.
type Square struct {
	Piece    *Piece
	Position Position
}

// Empty reports whether the square has no piece.
func (s Square) Empty() bool {
	return s.Piece == nil
}

// Board is the 6x6 grid. It is a value type: assigning a Board copies it.
// Pieces are shared between copies, which is safe because they are never
// mutated in place.
type Board [BoardSize][BoardSize]Square

// NewEmptyBoard returns a board with no pieces and every square's position
// set to its grid coordinates.
func NewEmptyBoard() Board {
	var b Board
	for r := range BoardSize {
		for c := range BoardSize {
			b[r][c].Position = Position{Row: r, Col: c}
		}
	}
	return b
}

// At returns the square at pos. pos must be in bounds.
func (b *Board) At(pos Position) Square {
	return b[pos.Row][pos.Col]
}

// PieceAt returns the piece at pos, or nil for empty or out-of-bounds squares.
func (b *Board) PieceAt(pos Position) *Piece {
	if !pos.InBounds() {
		return nil
	}
	return b[pos.Row][pos.Col].Piece
}

// Put places a piece at pos, replacing whatever was there.
func (b *Board) Put(pos Position, p Piece) {
	b[pos.Row][pos.Col].Piece = &p
}

// Remove clears pos and returns the piece that was there.
func (b *Board) Remove(pos Position) *Piece {
	prev := b[pos.Row][pos.Col].Piece
	b[pos.Row][pos.Col].Piece = nil
	return prev
}

// Occupied returns the positions holding a piece, in row-major order.
func (b *Board) Occupied() []Position {
	var out []Position
	for r := range BoardSize {
		for c := range BoardSize {
			if b[r][c].Piece != nil {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// pieceLetters is used by String for compact debugging output.
var pieceLetters = map[PieceType]rune{
	Knight: 'n', Rook: 'r', Pawn: 'p', Bishop: 'b', Queen: 'q', King: 'k',
	Star: '*', Castle: 'c', Crown: 'w', Diamond: 'd', Shield: 's', Home: 'h',
}

// String renders the board as six lines of letters. White pieces are upper
// case, black pieces lower case, empty squares are dots.
func (b *Board) String() string {
	var sb strings.Builder
	for r := range BoardSize {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range BoardSize {
			p := b[r][c].Piece
			if p == nil {
				sb.WriteByte('.')
				continue
			}
			ch := pieceLetters[p.Type]
			if p.Color == White {
				ch = []rune(strings.ToUpper(string(ch)))[0]
			}
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
