package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dividendlab/highyield/internal/dashboard"
	"github.com/dividendlab/highyield/internal/market"
	"github.com/dividendlab/highyield/pkg/config"
	"github.com/dividendlab/highyield/pkg/httputil"
	"github.com/dividendlab/highyield/pkg/logger"
)

var dashboardWatch bool

// dashboardCmd loads the published artifacts and prints the screened lists.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Load the published artifacts and print the screened lists",
	Long: `Loads the artifact set from DASHBOARD_BASE_URL and prints the
filtered, yield-ranked REIT and ETF lists.

With --watch the loader keeps running and refreshes on the configured
interval until interrupted.

Example:
  go run ./cmd/highyield dashboard
  go run ./cmd/highyield dashboard --watch`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().BoolVarP(&dashboardWatch, "watch", "w", false, "keep refreshing on the configured interval")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	httpClient := httputil.New(log, cfg.Yahoo.Timeout)
	loader := dashboard.NewLoader(cfg.Dashboard.BaseURL, httpClient, log)
	store := dashboard.NewStore(loader, cfg.Dashboard.AutoRefresh, log)

	ctx := context.Background()
	if err := store.Reload(ctx); err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}

	printScreened(store)

	if !dashboardWatch {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go store.Run(runCtx, cfg.Dashboard.RefreshInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}

func printScreened(store *dashboard.Store) {
	meta := store.Meta()
	fmt.Printf("Last update: %s\n", meta.LastUpdate.Format("2006-01-02 15:04 MST"))
	fmt.Printf("Next update: %s\n\n", meta.NextScheduledUpdate.Format("2006-01-02 15:04 MST"))

	c := store.Criteria()
	fmt.Printf("Criteria: price <= $%.2f, yield >= %.1f%%, top %d\n\n", c.MaxPrice, c.MinYield, c.TopCount)

	printTable("High-yield REITs", store.Screened(market.CategoryREIT))
	printTable("High-yield ETFs", store.Screened(market.CategoryETF))
}

func printTable(title string, rows []market.Security) {
	fmt.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tNAME\tPRICE\tYIELD")
	for _, s := range rows {
		fmt.Fprintf(w, "%s\t%s\t$%.2f\t%.2f%%\n", s.Ticker, s.Name, s.Price, s.Yield)
	}
	w.Flush()
	fmt.Println()
}
