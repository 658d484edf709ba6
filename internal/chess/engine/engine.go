// Package engine holds the game state of Pawn School: the board, the
// selected piece, the current level and the unlock/mastery bookkeeping.
//
// An Engine is not safe for concurrent use. Callers that share one engine
// between goroutines must serialize access themselves.
package engine

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/pawn-school/internal/chess"
	"github.com/vovakirdan/pawn-school/internal/chess/levels"
)

// MasteryThreshold is the number of wins on a level that unlocks the next one.
const MasteryThreshold = 3

// Selection is the currently picked white piece and where it stands.
type Selection struct {
	Piece    chess.Piece    `json:"piece"`
	Position chess.Position `json:"position"`
}

// Engine is the game state for one player.
type Engine struct {
	catalog *levels.Catalog
	rng     *rand.Rand

	board      chess.Board
	selection  *Selection
	levelIndex int
	target     chess.Position
	won        bool

	wins     []int
	unlocked []bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for setups and placements.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed seeds the random source. Zero keeps the time-based default.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// New creates an engine on level 0 of catalog. Only level 0 is unlocked.
// A nil catalog selects the built-in one.
func New(catalog *levels.Catalog, opts ...Option) *Engine {
	if catalog == nil {
		catalog = levels.Default()
	}
	e := &Engine{
		catalog:  catalog,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		wins:     make([]int, catalog.Len()),
		unlocked: make([]bool, catalog.Len()),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.unlocked[0] = true
	e.ResetLevel()
	return e
}

// SetLevel switches to level index and resets it.
// Out-of-range indices return ErrLevelOutOfRange and leave state untouched.
func (e *Engine) SetLevel(index int) error {
	if !e.catalog.Contains(index) {
		return ErrLevelOutOfRange
	}
	e.levelIndex = index
	e.ResetLevel()
	return nil
}

// ResetLevel builds a fresh board for the current level.
func (e *Engine) ResetLevel() {
	e.won = false
	e.selection = nil
	e.board = chess.NewEmptyBoard()

	level := e.Level()
	if setup, ok := e.catalog.ChooseSetup(e.levelIndex, e.rng); ok {
		for _, pl := range setup {
			e.board.Put(pl.Position, pl.Piece)
		}
		e.target, _ = level.TargetIn(setup)
		return
	}

	var start chess.Position
	if level.Piece == chess.Pawn {
		col := e.rng.Intn(chess.BoardSize)
		start = chess.P(chess.BoardSize-2, col)
		e.target = chess.P(0, col)
	} else {
		start = e.randomPosition()
		e.target = e.randomPosition()
		for e.target == start {
			e.target = e.randomPosition()
		}
	}
	e.board.Put(start, chess.NewPiece(level.Piece, chess.White))
	e.board.Put(e.target, chess.NewPiece(level.Target, chess.White))
}

func (e *Engine) randomPosition() chess.Position {
	return chess.P(e.rng.Intn(chess.BoardSize), e.rng.Intn(chess.BoardSize))
}

// SelectPieceAt selects the white piece at pos. Anything else is ignored.
func (e *Engine) SelectPieceAt(pos chess.Position) {
	p := e.board.PieceAt(pos)
	if p == nil || !p.IsWhite() {
		return
	}
	e.selection = &Selection{Piece: *p, Position: pos}
}

// DeselectPiece clears the selection.
func (e *Engine) DeselectPiece() {
	e.selection = nil
}

// PossibleMoves returns the legal destinations of the selected piece.
func (e *Engine) PossibleMoves() []chess.Position {
	if e.selection == nil {
		return nil
	}
	view := e.reachView()
	return chess.MovesFor(e.selection.Piece.Type, &view, e.selection.Position)
}

// reachView is the board the move rules see. On a learning level the target
// marker counts as a capture square, so it is reachable and ends any ray that
// meets it. A pawn never captures, so for a pawn the marker square is left
// empty instead; it moves one step and cannot pass it.
func (e *Engine) reachView() chess.Board {
	view := e.board
	level := e.Level()
	if level.IsPuzzle() {
		return view
	}
	p := view.PieceAt(e.target)
	if p == nil || p.Type != level.Target {
		return view
	}
	if e.selection != nil && e.selection.Piece.Type == chess.Pawn {
		view.Remove(e.target)
		return view
	}
	view.Put(e.target, chess.NewPiece(level.Target, chess.Black))
	return view
}

// HandleMove moves the selected piece from from to to and reports whether
// the move was applied. It is a no-op unless a piece is selected, from is
// the selected piece's square, and to is one of its legal moves.
func (e *Engine) HandleMove(from, to chess.Position) bool {
	if e.selection == nil || e.selection.Position != from {
		return false
	}
	if !chess.ContainsPosition(e.PossibleMoves(), to) {
		return false
	}
	e.applyMove(from, to)
	return true
}

// applyMove moves the piece on a copy of the board, then evaluates the win.
func (e *Engine) applyMove(from, to chess.Position) {
	next := e.board
	captured := next.PieceAt(to)
	moved := next.Remove(from)
	next.Put(to, *moved)
	e.selection = nil

	if to == e.target {
		wasWon := e.won
		level := e.Level()
		if level.IsPuzzle() {
			if captured != nil && captured.Type == level.Target {
				e.won = true
			}
		} else {
			e.won = true
			arrived := level.Target
			if level.Piece == chess.Pawn {
				arrived = chess.Crown
			}
			next.Put(to, chess.NewPiece(arrived, moved.Color))
		}
		if e.won && !wasWon {
			e.recordWin()
		}
	}
	e.board = next
}

func (e *Engine) recordWin() {
	e.wins[e.levelIndex]++
	if e.wins[e.levelIndex] >= MasteryThreshold {
		e.unlockNext()
	}
}

func (e *Engine) unlockNext() {
	if next := e.levelIndex + 1; next < len(e.unlocked) {
		e.unlocked[next] = true
	}
}

// ForceUnlockNextLevel marks the current level mastered and unlocks the next.
func (e *Engine) ForceUnlockNextLevel() {
	e.wins[e.levelIndex] = MasteryThreshold
	e.unlockNext()
}

// ResetWinsForLevel sets the win count of level index to zero.
// Unlock flags are not touched.
func (e *Engine) ResetWinsForLevel(index int) error {
	if !e.catalog.Contains(index) {
		return ErrLevelOutOfRange
	}
	e.wins[index] = 0
	return nil
}

// EnterLevel is the player-facing level switch. Locked levels are refused
// and a mastered level has its win count reset so it can be earned again.
func (e *Engine) EnterLevel(index int) error {
	if !e.catalog.Contains(index) {
		return ErrLevelOutOfRange
	}
	if !e.unlocked[index] {
		return ErrLevelLocked
	}
	if e.wins[index] >= MasteryThreshold {
		e.wins[index] = 0
	}
	return e.SetLevel(index)
}

// SkipLevel force-unlocks the next level and enters it.
// On the last level it still marks mastery and returns ErrNoNextLevel.
func (e *Engine) SkipLevel() error {
	e.ForceUnlockNextLevel()
	next := e.levelIndex + 1
	if !e.catalog.Contains(next) {
		return ErrNoNextLevel
	}
	return e.EnterLevel(next)
}

// Board returns a copy of the current board.
func (e *Engine) Board() chess.Board {
	return e.board
}

// Selection returns the current selection.
func (e *Engine) Selection() (Selection, bool) {
	if e.selection == nil {
		return Selection{}, false
	}
	return *e.selection, true
}

// Won reports whether the current level has been won.
func (e *Engine) Won() bool { return e.won }

// LevelIndex returns the 0-based current level index.
func (e *Engine) LevelIndex() int { return e.levelIndex }

// Level returns the current level definition.
func (e *Engine) Level() levels.Level {
	l, _ := e.catalog.At(e.levelIndex)
	return l
}

// Catalog returns the catalog the engine plays.
func (e *Engine) Catalog() *levels.Catalog { return e.catalog }

// TargetPosition returns the square that wins the level.
func (e *Engine) TargetPosition() chess.Position { return e.target }

// Wins returns the win count of level index, zero when out of range.
func (e *Engine) Wins(index int) int {
	if !e.catalog.Contains(index) {
		return 0
	}
	return e.wins[index]
}

// WinsByLevel returns a copy of all win counts.
func (e *Engine) WinsByLevel() []int {
	return append([]int(nil), e.wins...)
}

// Unlocked returns a copy of the unlock flags.
func (e *Engine) Unlocked() []bool {
	return append([]bool(nil), e.unlocked...)
}

// IsUnlocked reports whether level index can be entered.
func (e *Engine) IsUnlocked(index int) bool {
	return e.catalog.Contains(index) && e.unlocked[index]
}
