package core

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // UI ticks per second
	Seed     int64 // RNG seed, 0 means time-based
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0,
	}
}

// GameState is reported by the game to the platform after each step.
type GameState struct {
	Level    int  // 1-based level number
	Wins     int  // Wins on the current level
	Gems     int  // Gems collected
	Won      bool // The current level is won
	Quit     bool // The player asked to leave
	TooSmall bool // The screen cannot fit the board
}
