package levels

import (
	"fmt"

	"github.com/vovakirdan/pawn-school/internal/chess"
)

// ValidationError contains details about a validation failure.
// It matches ErrInvalidLevels with errors.Is.
type ValidationError struct {
	Level   int // 0-based index of the offending level
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("levels: level %d: [%s] %s", e.Level, e.Code, e.Message)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidLevels
}

// Validate checks every level of a catalog.
// Checks:
//   - The catalog is not empty
//   - Piece is movable, target is a known type
//   - Setups place in-bounds pieces on distinct squares
//   - Every setup holds exactly one target piece and a white mover
func Validate(lvls []Level) error {
	if len(lvls) == 0 {
		return ValidationError{Level: -1, Code: "EMPTY", Message: "catalog has no levels"}
	}
	for i, l := range lvls {
		if err := validateLevel(i, l); err != nil {
			return err
		}
	}
	return nil
}

func validateLevel(i int, l Level) error {
	if !l.Piece.IsMovable() {
		return ValidationError{Level: i, Code: "INVALID_PIECE", Message: fmt.Sprintf("piece %q cannot move", l.Piece)}
	}
	if !l.Target.Valid() {
		return ValidationError{Level: i, Code: "INVALID_TARGET", Message: fmt.Sprintf("unknown target %q", l.Target)}
	}
	if l.Name == "" {
		return ValidationError{Level: i, Code: "MISSING_NAME", Message: "level has no name"}
	}
	if l.Setups != nil && len(l.Setups) == 0 {
		return ValidationError{Level: i, Code: "EMPTY_SETUPS", Message: "setups must not be empty when present"}
	}
	if !l.IsPuzzle() && l.Target.IsMovable() {
		return ValidationError{Level: i, Code: "INVALID_TARGET", Message: "learning levels need a decoration target"}
	}

	for si, s := range l.Setups {
		if err := validateSetup(i, si, l, s); err != nil {
			return err
		}
	}
	return nil
}

func validateSetup(i, si int, l Level, s Setup) error {
	seen := make(map[chess.Position]bool, len(s))
	targets := 0
	movers := 0

	for _, pl := range s {
		if !pl.Position.InBounds() {
			return ValidationError{Level: i, Code: "OUT_OF_BOUNDS", Message: fmt.Sprintf("setup %d places a piece at %v", si, pl.Position)}
		}
		if seen[pl.Position] {
			return ValidationError{Level: i, Code: "DUPLICATE_SQUARE", Message: fmt.Sprintf("setup %d places two pieces at %v", si, pl.Position)}
		}
		seen[pl.Position] = true

		if !pl.Piece.Type.Valid() {
			return ValidationError{Level: i, Code: "INVALID_PIECE", Message: fmt.Sprintf("setup %d has unknown piece %q", si, pl.Piece.Type)}
		}
		if pl.Piece.Type == l.Target {
			targets++
		}
		if pl.Piece.IsWhite() && pl.Piece.Type.IsMovable() {
			movers++
		}
	}

	if targets != 1 {
		return ValidationError{Level: i, Code: "TARGET_COUNT", Message: fmt.Sprintf("setup %d has %d %s pieces, want 1", si, targets, l.Target)}
	}
	if movers == 0 {
		return ValidationError{Level: i, Code: "NO_MOVER", Message: fmt.Sprintf("setup %d has no white piece to move", si)}
	}
	return nil
}
