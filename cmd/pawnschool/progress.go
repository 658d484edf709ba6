package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pawn-school/internal/chess/engine"
	"github.com/vovakirdan/pawn-school/internal/platform/tui"
)

var flagReset bool

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show or reset saved progress",
	Long: `Shows wins and unlocked levels for a profile. In a terminal this opens
an interactive table; Tab switches between profiles.

Examples:
  pawnschool progress
  pawnschool progress --profile ana
  pawnschool progress --reset --profile ana`,
	Args: cobra.NoArgs,
	Run:  runProgress,
}

func init() {
	progressCmd.Flags().BoolVar(&flagReset, "reset", false, "Delete all progress, wins and gems of the profile")
}

func runProgress(_ *cobra.Command, _ []string) {
	catalog, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	profile := appCfg.Profile

	if flagReset {
		if err := store.ClearProgress(profile); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Progress of %q cleared.\n", profile)
		return
	}

	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunProgress(store, catalog, profile, width, height); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Plain output when piped.
	p, found, err := store.LoadProgress(profile, catalog.Len())
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving progress: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Progress - %s\n", profile)
	fmt.Println()
	if !found {
		fmt.Println("No progress recorded yet.")
		return
	}

	fmt.Printf("  %-3s  %-24s  %-5s  %s\n", "#", "Level", "Wins", "Status")
	fmt.Printf("  %-3s  %-24s  %-5s  %s\n", "-", "-----", "----", "------")
	for i, l := range catalog.All() {
		status := "locked"
		switch {
		case p.Wins[i] >= engine.MasteryThreshold:
			status = "mastered"
		case p.Unlocked[i] || i == 0:
			status = "open"
		}
		fmt.Printf("  %-3d  %-24s  %-5d  %s\n", i+1, l.Name, p.Wins[i], status)
	}

	if stats, err := store.Stats(profile); err == nil {
		fmt.Println()
		fmt.Printf("Total wins: %d, gems: %d\n", stats.TotalWins, stats.Gems)
	}
}
