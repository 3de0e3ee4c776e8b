package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhkim/tessa/internal/scheduler"
	"github.com/dhkim/tessa/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the watchlist scheduler",
	Long: `Starts the cron scheduler that re-analyzes every watchlist symbol
after the daily close and persists the runs.

The watchlist comes from the WATCHLIST environment variable, comma
separated.

Example:
  WATCHLIST=600519,000858 go run ./cmd/tessa scheduler
  go run ./cmd/tessa scheduler --now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "now", false, "run the watchlist job immediately on startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	s, err := buildStack(false)
	if err != nil {
		return err
	}
	defer s.close()

	if len(s.cfg.WatchlistSymbols()) == 0 {
		return fmt.Errorf("WATCHLIST is empty, nothing to schedule")
	}

	if s.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := s.repo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	sched := scheduler.New(s.log)
	job := jobs.NewWatchlistJob(s.bars, s.analyzer, s.repo, s.cfg, s.log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add watchlist job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	fmt.Println("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
