package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "highyield",
	Short: "High-yield dividend dashboard backend",
	Long: `High-yield dividend dashboard backend.

Fetches REIT and ETF quotes, dividend yields, and six-month price
histories from Yahoo Finance, publishes them as static JSON artifacts,
and serves the dashboard API on top of them.

Examples:
  go run ./cmd/highyield fetch
  go run ./cmd/highyield serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
