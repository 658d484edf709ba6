package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	apihttp "github.com/vovakirdan/pawn-school/internal/api/http"
)

var flagHTTPAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API",
	Long: `Start a JSON API that drives game sessions over HTTP.

Routes:
  GET    /levels
  POST   /sessions                 {"profile": "ana", "seed": 0}
  GET    /sessions/:id
  DELETE /sessions/:id
  POST   /sessions/:id/level       {"level": 2, "force": false}
  POST   /sessions/:id/reset
  POST   /sessions/:id/select      {"row": 5, "col": 0}
  POST   /sessions/:id/deselect
  POST   /sessions/:id/move        {"from": {...}, "to": {...}}
  POST   /sessions/:id/skip
  POST   /sessions/:id/unlock-next
  POST   /sessions/:id/wins/reset  {"level": 0}
  GET    /sessions/:id/story

Sessions idle for longer than server.idle_timeout are dropped.

Examples:
  pawnschool api
  pawnschool api --http :9090`,
	Args: cobra.NoArgs,
	Run:  runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (host:port)")
}

func runAPI(cmd *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("pawnschool-api", true)
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

	store, err := openStore()
	if err != nil {
		logger.Warn("could not open progress database, progress will not be saved", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	addr := appCfg.Server.HTTPAddr
	if cmd.Flags().Changed("http") {
		addr = flagHTTPAddr
	}

	if lvl, _ := appCfg.LogLevel(); lvl != log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := apihttp.NewSessionManager(catalog, store, logger)
	router := apihttp.NewRouter(apihttp.RouterConfig{
		Sessions:     sessions,
		Teller:       teller,
		StoryTimeout: appCfg.Narrative.Timeout,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.RunSweeper(ctx, time.Minute, appCfg.Server.IdleTimeout)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP API", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
