package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	profileFile string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tessa",
	Short: "Tessa - regime-aware technical signal engine",
	Long: `Tessa Unified CLI

Evaluates OHLCV bar histories through a catalog of technical signals,
classifies the market regime and produces a weighted composite score.

Usage:
  go run ./cmd/tessa [command]

Examples:
  go run ./cmd/tessa analyze 600519
  go run ./cmd/tessa api
  go run ./cmd/tessa scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&profileFile, "profile", "", "indicator parameter profile (YAML, overrides PROFILE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
