package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pawn-school/internal/config"
	"github.com/vovakirdan/pawn-school/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Pawn School SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH user name is a profile, so progress follows the user from one
connection to the next.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key_path from the config (generated if missing)

Examples:
  pawnschool serve                           # Listen on the configured address
  pawnschool serve --ssh :2222               # Listen on port 2222
  pawnschool serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh ana@localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (e.g. 30m)")
}

func runServe(cmd *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("pawnschool-ssh", true)
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

	cfg := tui.SSHServerConfig{
		Address:     appCfg.Server.SSHAddr,
		HostKeyPath: appCfg.Server.HostKeyPath,
		DBPath:      appCfg.Storage.DBPath,
		IdleTimeout: appCfg.Server.IdleTimeout,
		TickRate:    appCfg.TUI.TickRate,
		Catalog:     catalog,
		Teller:      teller,
		Logger:      logger,
	}
	if cmd.Flags().Changed("ssh") {
		cfg.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.HostKeyPath = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.IdleTimeout = flagIdleTimeout
	}
	if cfg.HostKeyPath != "" {
		cfg.HostKeyPath = config.ExpandHome(cfg.HostKeyPath)
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Pawn School SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
