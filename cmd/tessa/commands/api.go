package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhkim/tessa/internal/api"
	"github.com/dhkim/tessa/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the analysis API server",
	Long: `Starts the REST API server.

Endpoints:
  GET /health                    - Health check
  GET /api/analyze/{symbol}      - Run a full evaluation
  GET /api/runs/{symbol}         - Stored run history
  GET /api/runs/{symbol}/latest  - Most recent stored run
  GET /api/profile/{symbol}      - Symbol profile
  GET /ws/analyze/{symbol}       - Live re-evaluation stream

Example:
  go run ./cmd/tessa api
  go run ./cmd/tessa api --port 8086`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	s, err := buildStack(false)
	if err != nil {
		return err
	}
	defer s.close()

	if apiPort != "" {
		s.cfg.Port = apiPort
	}

	s.log.WithFields(map[string]interface{}{
		"port": s.cfg.Port,
		"env":  s.cfg.Env,
	}).Info("Initializing API server")

	if s.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := s.repo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	handler := handlers.NewAnalysisHandler(s.bars, s.analyzer, s.repo, s.cache, s.cfg, s.log)
	router := api.NewRouter(handler, s.log)
	server := api.New(s.cfg, s.log, router)

	go func() {
		if err := server.Start(); err != nil {
			s.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", s.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	s.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("Server stopped")
	return nil
}
