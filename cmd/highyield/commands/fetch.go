package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dividendlab/highyield/internal/dataset"
	"github.com/dividendlab/highyield/internal/fetch"
	"github.com/dividendlab/highyield/internal/market/yahoo"
	"github.com/dividendlab/highyield/pkg/config"
	"github.com/dividendlab/highyield/pkg/httputil"
	"github.com/dividendlab/highyield/pkg/logger"
)

// fetchCmd runs one fetch and writes the artifact set.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch quotes and histories, write the JSON artifacts",
	Long: `Runs one fetch over the configured REIT and ETF ticker lists and
replaces the artifact set under the data directory.

On a non-trading day (Saturday/Sunday UTC) the run is a no-op and the
existing artifacts are left untouched.

Example:
  go run ./cmd/highyield fetch
  DATA_DIR=/srv/dashboard/data go run ./cmd/highyield fetch`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	orchestrator, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	report, err := orchestrator.Run(context.Background())
	if err != nil {
		return fmt.Errorf("fetch run: %w", err)
	}

	if report.Skipped {
		fmt.Printf("Skipped: %s\n", report.Message)
		return nil
	}

	fmt.Printf("REITs fetched: %d/%d\n", report.REITCount, len(cfg.REITTickers))
	fmt.Printf("ETFs fetched:  %d/%d\n", report.ETFCount, len(cfg.ETFTickers))
	if len(report.Failed) > 0 {
		fmt.Printf("Failed:        %s\n", strings.Join(report.Failed, ", "))
	}
	fmt.Printf("Next update:   %s\n", report.NextUpdate.Format("2006-01-02 15:04 MST"))

	return nil
}

// buildOrchestrator wires the provider, writer, and orchestrator from config.
func buildOrchestrator(cfg *config.Config, log *logger.Logger) (*fetch.Orchestrator, error) {
	httpClient := httputil.New(log, cfg.Yahoo.Timeout)
	provider := yahoo.NewClient(cfg.Yahoo, httpClient, log)

	writer, err := dataset.NewWriter(cfg.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("create dataset writer: %w", err)
	}

	return fetch.New(provider, writer, cfg, log), nil
}
