package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhkim/tessa/internal/market"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbol]",
	Short: "Run a one-shot evaluation for a symbol",
	Long: `Fetches bar history for a symbol, runs the full signal catalog and
prints the composite result.

Example:
  go run ./cmd/tessa analyze 600519
  go run ./cmd/tessa analyze 600519 --interval weekly --bars 250 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeInterval string
	analyzeBars     int
	analyzeJSON     bool
	analyzeSave     bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeInterval, "interval", "daily", "bar interval (daily|weekly|monthly)")
	analyzeCmd.Flags().IntVar(&analyzeBars, "bars", 0, "number of bars to analyze (default MARKET_MAX_BARS)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the run (requires DATABASE_URL)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	s, err := buildStack(analyzeSave)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	interval := market.ParseInterval(analyzeInterval)
	bars, err := s.bars.FetchBars(ctx, symbol, interval, analyzeBars)
	if err != nil {
		return fmt.Errorf("fetch bars: %w", err)
	}

	result, err := s.analyzer.Run(symbol, interval, bars)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", symbol, err)
	}

	if analyzeSave && s.repo != nil {
		if err := s.repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		if _, err := s.repo.SaveRun(ctx, result); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Symbol:         %s (%s, %d bars)\n", result.Symbol, result.Interval, result.Bars)
	fmt.Printf("Regime:         %s\n", result.Regime)
	fmt.Printf("Score:          %.1f\n", result.Composite.Score)
	fmt.Printf("Recommendation: %s\n", result.Composite.Recommendation)
	fmt.Printf("Signals:        %d buy / %d sell / %d neutral\n",
		result.Composite.BuyCount, result.Composite.SellCount, result.Composite.NeutralCount)

	fmt.Println("\nSignals:")
	for _, sig := range result.Signals {
		fmt.Printf("  %-16s %-8s %-9s %3d  %s\n",
			sig.Name, sig.Signal.Category, sig.Signal.Direction, sig.Signal.Strength, sig.Signal.Description)
	}

	if len(result.Patterns) > 0 {
		fmt.Println("\nPatterns:")
		for _, p := range result.Patterns {
			fmt.Printf("  %-20s %s\n", p.Name, p.Kind)
		}
	}

	return nil
}
