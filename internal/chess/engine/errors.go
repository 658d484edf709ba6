package engine

import "errors"

var (
	// ErrLevelOutOfRange is returned for a level index outside the catalog.
	ErrLevelOutOfRange = errors.New("engine: level index out of range")

	// ErrLevelLocked is returned when entering a level that is not unlocked.
	ErrLevelLocked = errors.New("engine: level is locked")

	// ErrNoNextLevel is returned by SkipLevel on the last level.
	ErrNoNextLevel = errors.New("engine: no next level")
)
