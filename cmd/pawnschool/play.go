package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pawn-school/internal/core"
	"github.com/vovakirdan/pawn-school/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Pawn School in the terminal",
	Long: `Start playing. Progress is saved for the selected profile.

Controls:
  Arrows/WASD   - Move the cursor
  Enter/Space   - Select a white piece, or move it to a green square
  Esc           - Put the piece down
  R             - Restart the level
  L             - Level list
  N             - Skip to the next level
  T             - Tell a story about the piece
  Ctrl+S        - Save a screenshot
  Q/Ctrl+C      - Quit

Examples:
  pawnschool play
  pawnschool play --profile ana
  pawnschool play --levels ./my-levels.yaml
  pawnschool play --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("pawnschool", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	catalog, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	teller, err := newTeller(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: appCfg.TUI.TickRate,
		Seed:     flagSeed,
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open progress database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(cfg, tui.Options{
		Catalog:      catalog,
		Store:        store,
		Profile:      appCfg.Profile,
		Teller:       teller,
		Logger:       logger,
		StoryTimeout: appCfg.Narrative.Timeout,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
