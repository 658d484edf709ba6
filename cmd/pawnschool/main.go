// pawnschool teaches children how chess pieces move, one small board at a time.
//
// Usage:
//
//	pawnschool play              - Play in the terminal
//	pawnschool levels            - List the levels
//	pawnschool progress          - Show saved progress
//	pawnschool serve             - Start SSH server for remote play
//	pawnschool api               - Start the HTTP API
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.pawnschool, ./configs)
//	--seed <value>      - Set RNG seed for reproducible boards
//	--db <path>         - Set database path
//	--profile <name>    - Player profile
//	--levels <path>     - Custom level file
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pawn-school/internal/chess/levels"
	"github.com/vovakirdan/pawn-school/internal/config"
	"github.com/vovakirdan/pawn-school/internal/narrative"
	"github.com/vovakirdan/pawn-school/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagProfile  string
	flagLevels   string
	flagLogLevel string

	appCfg config.AppConfig
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pawnschool",
	Short: "Pawn School - learn how chess pieces move",
	Long: `Pawn School is a small chess trainer for children. Each level shows
one piece and a goal; win a level three times to unlock the next one.

Available commands:
  play      - Play in the terminal
  levels    - Show all levels
  progress  - View or reset saved progress
  serve     - Start SSH server for remote play
  api       - Start the HTTP API

Examples:
  pawnschool play
  pawnschool play --profile ana
  pawnschool levels --yaml > my-levels.yaml
  pawnschool progress --reset --profile ana
  pawnschool serve --ssh :2222`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Player profile name")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Path to a custom level YAML file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flags.Changed("profile") {
		cfg.Profile = flagProfile
	}
	if flags.Changed("levels") {
		cfg.Levels.Path = flagLevels
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	appCfg = cfg
	return nil
}

// newLogger builds the logger for a command. Interactive commands pass
// toStderr=false so log lines never end up inside the terminal UI; they log
// to log.file when one is configured and are silent otherwise.
func newLogger(prefix string, toStderr bool) (*log.Logger, func(), error) {
	level, err := appCfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	switch {
	case appCfg.Log.File != "":
		path := config.ExpandHome(appCfg.Log.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case toStderr:
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// loadCatalog returns the configured level catalog.
func loadCatalog() (*levels.Catalog, error) {
	return levels.Load(appCfg.Levels.Path)
}

// newTeller builds the story teller for the configured provider.
func newTeller(logger *log.Logger) (*narrative.Teller, error) {
	n := appCfg.Narrative
	gen, err := narrative.NewGenerator(n.Provider, n.Gemini(), flagSeed)
	if err != nil {
		return nil, err
	}
	if n.Provider == narrative.ProviderGemini && n.APIKey() == "" {
		logger.Warn("no API key set, stories are unavailable", "env", n.APIKeyEnv)
	}
	return narrative.NewTeller(gen, logger), nil
}

// openStore opens the progress database.
func openStore() (*storage.Store, error) {
	return storage.Open(appCfg.Storage.DBPath)
}
