package chess

// Delta is a row/column offset.
type Delta struct {
	Row, Col int
}

var (
	knightDeltas = []Delta{
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	}
	kingDeltas = []Delta{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	orthogonalDirs = []Delta{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	diagonalDirs   = []Delta{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	pawnForward    = Delta{-1, 0}
)

// LegalMoves returns the destinations for the piece standing on from.
// Empty squares and out-of-bounds origins yield no moves.
func LegalMoves(b *Board, from Position) []Position {
	p := b.PieceAt(from)
	if p == nil {
		return nil
	}
	return MovesFor(p.Type, b, from)
}

// MovesFor returns the destinations a piece of type t would have on from,
// regardless of what actually stands there. Decorations have no moves.
func MovesFor(t PieceType, b *Board, from Position) []Position {
	switch t {
	case Knight:
		return stepMoves(b, from, knightDeltas)
	case King:
		return stepMoves(b, from, kingDeltas)
	case Rook:
		return rayMoves(b, from, orthogonalDirs)
	case Bishop:
		return rayMoves(b, from, diagonalDirs)
	case Queen:
		return append(rayMoves(b, from, orthogonalDirs), rayMoves(b, from, diagonalDirs)...)
	case Pawn:
		return pawnMoves(b, from)
	default:
		return nil
	}
}

// stepMoves handles single-step movers. A white piece blocks the square,
// anything else (empty or black) is a legal destination.
func stepMoves(b *Board, from Position, deltas []Delta) []Position {
	var moves []Position
	for _, d := range deltas {
		to := from.Add(d)
		if !to.InBounds() {
			continue
		}
		if p := b.PieceAt(to); p != nil && p.IsWhite() {
			continue
		}
		moves = append(moves, to)
	}
	return moves
}

// rayMoves extends each direction until the edge or the first piece.
// A black piece is included as a capture, a white piece is not.
func rayMoves(b *Board, from Position, dirs []Delta) []Position {
	var moves []Position
	for _, d := range dirs {
		for to := from.Add(d); to.InBounds(); to = to.Add(d) {
			p := b.PieceAt(to)
			if p == nil {
				moves = append(moves, to)
				continue
			}
			if !p.IsWhite() {
				moves = append(moves, to)
			}
			break
		}
	}
	return moves
}

// pawnMoves allows one step toward row 0 onto an empty square.
func pawnMoves(b *Board, from Position) []Position {
	to := from.Add(pawnForward)
	if !to.InBounds() || b.PieceAt(to) != nil {
		return nil
	}
	return []Position{to}
}

// ContainsPosition reports whether pos is in moves.
func ContainsPosition(moves []Position, pos Position) bool {
	for _, m := range moves {
		if m == pos {
			return true
		}
	}
	return false
}
