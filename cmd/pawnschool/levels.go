package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagLevelsYAML bool

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all levels",
	Long: `Shows the levels in play order. With --yaml the catalog is printed
in the level file format, ready to be edited and loaded with --levels.`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagLevelsYAML, "yaml", false, "Print the catalog as YAML")
}

func runLevels(_ *cobra.Command, _ []string) {
	catalog, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	if flagLevelsYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(catalog); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		enc.Close()
		return
	}

	all := catalog.All()
	maxNameLen := 4 // "Name" header
	for _, l := range all {
		if len(l.Name) > maxNameLen {
			maxNameLen = len(l.Name)
		}
	}

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %-3s  %-*s  %-8s  %-7s  %s\n", "#", maxNameLen, "Name", "Kind", "Piece", "Goal")
	fmt.Printf("  %-3s  %-*s  %-8s  %-7s  %s\n", "-", maxNameLen, "----", "----", "-----", "----")
	for i, l := range all {
		fmt.Printf("  %-3d  %-*s  %-8s  %-7s  %s\n", i+1, maxNameLen, l.Name, l.Kind(), l.Piece, l.Target)
	}

	fmt.Println()
	fmt.Println("Win a level 3 times to unlock the next one. Run 'pawnschool play' to start.")
}
