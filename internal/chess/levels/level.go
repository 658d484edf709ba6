// Package levels provides the level catalog: an ordered, read-only list of
// learning and puzzle levels. The catalog is built once (from the embedded
// default file or a user-supplied YAML file) and shared by reference.
package levels

import (
	"errors"
	"math/rand"

	"github.com/vovakirdan/pawn-school/internal/chess"
)

// ErrInvalidLevels is returned when a level definition fails validation.
var ErrInvalidLevels = errors.New("levels: invalid level definition")

// Kind distinguishes learning levels from puzzle levels.
type Kind string

const (
	KindLearning Kind = "learning"
	KindPuzzle   Kind = "puzzle"
)

// Placement puts one piece on one square.
type Placement struct {
	Position chess.Position `json:"position"`
	Piece    chess.Piece    `json:"piece"`
}

// Setup is one fixed board layout for a puzzle level.
type Setup []Placement

// Level is a single entry of the catalog.
type Level struct {
	Piece       chess.PieceType `json:"piece"`
	Target      chess.PieceType `json:"target"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Setups      []Setup         `json:"setups,omitempty"`
}

// IsPuzzle reports whether the level uses fixed setups.
func (l Level) IsPuzzle() bool {
	return len(l.Setups) > 0
}

// Kind returns the level kind.
func (l Level) Kind() Kind {
	if l.IsPuzzle() {
		return KindPuzzle
	}
	return KindLearning
}

// TargetIn returns the position of the piece in s whose type is the level's
// target. The last match wins if a setup places more than one.
func (l Level) TargetIn(s Setup) (chess.Position, bool) {
	var (
		pos   chess.Position
		found bool
	)
	for _, pl := range s {
		if pl.Piece.Type == l.Target {
			pos, found = pl.Position, true
		}
	}
	return pos, found
}

// clone deep-copies the level so callers cannot reach catalog storage.
func (l Level) clone() Level {
	if len(l.Setups) == 0 {
		return l
	}
	setups := make([]Setup, len(l.Setups))
	for i, s := range l.Setups {
		setups[i] = append(Setup(nil), s...)
	}
	l.Setups = setups
	return l
}

// Catalog is an immutable ordered list of levels.
type Catalog struct {
	levels []Level
}

// NewCatalog validates the levels and returns a catalog holding a private copy.
func NewCatalog(lvls []Level) (*Catalog, error) {
	if err := Validate(lvls); err != nil {
		return nil, err
	}
	c := &Catalog{levels: make([]Level, len(lvls))}
	for i, l := range lvls {
		c.levels[i] = l.clone()
	}
	return c, nil
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.levels)
}

// Contains reports whether index addresses a level.
func (c *Catalog) Contains(index int) bool {
	return index >= 0 && index < len(c.levels)
}

// At returns the level at index (0-based).
func (c *Catalog) At(index int) (Level, bool) {
	if !c.Contains(index) {
		return Level{}, false
	}
	return c.levels[index].clone(), true
}

// All returns a copy of every level in order.
func (c *Catalog) All() []Level {
	out := make([]Level, len(c.levels))
	for i, l := range c.levels {
		out[i] = l.clone()
	}
	return out
}

// ChooseSetup picks one of the level's setups uniformly at random.
// Learning levels return false.
func (c *Catalog) ChooseSetup(index int, rng *rand.Rand) (Setup, bool) {
	if !c.Contains(index) {
		return nil, false
	}
	setups := c.levels[index].Setups
	if len(setups) == 0 {
		return nil, false
	}
	s := setups[rng.Intn(len(setups))]
	return append(Setup(nil), s...), true
}
