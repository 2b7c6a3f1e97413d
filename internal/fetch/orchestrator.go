// Package fetch orchestrates one fetch run: fan out over the configured
// ticker lists, normalize the results, and hand the aggregate to the
// dataset writer. A ticker's failure reduces the run's completeness but
// never aborts it.
package fetch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dividendlab/highyield/internal/dataset"
	"github.com/dividendlab/highyield/internal/market"
	"github.com/dividendlab/highyield/pkg/config"
	"github.com/dividendlab/highyield/pkg/logger"
)

// SkipMessage is the report message for a non-trading-day no-op.
const SkipMessage = "markets closed (weekend), artifacts left untouched"

// Orchestrator runs the fetch pipeline end to end.
type Orchestrator struct {
	provider market.Provider
	writer   *dataset.Writer
	cfg      *config.Config
	logger   *logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New creates an orchestrator.
func New(provider market.Provider, writer *dataset.Writer, cfg *config.Config, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		writer:   writer,
		cfg:      cfg,
		logger:   log.WithField("module", "fetch"),
		now:      time.Now,
	}
}

// WithNow replaces the orchestrator's clock, used by tests.
func (o *Orchestrator) WithNow(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Report summarizes one run.
type Report struct {
	Skipped    bool      `json:"skipped"`
	Message    string    `json:"message"`
	REITCount  int       `json:"reit_count"`
	ETFCount   int       `json:"etf_count"`
	Failed     []string  `json:"failed,omitempty"`
	NextUpdate time.Time `json:"next_update"`
}

// tickerResult is one worker's outcome for one ticker.
type tickerResult struct {
	ticker   string
	security market.Security
	history  market.History
	err      error
}

// Run executes one fetch run. On a non-trading day it performs no provider
// calls, leaves the prior artifacts untouched, and reports a skip, not an
// error.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	now := o.now()

	if !IsTradingDay(now) {
		o.logger.Info("Non-trading day, skipping fetch")
		return &Report{
			Skipped:    true,
			Message:    SkipMessage,
			NextUpdate: NextUpdate(now, o.cfg.Fetch.UpdateHourUTC),
		}, nil
	}

	o.logger.WithFields(map[string]interface{}{
		"reits":   len(o.cfg.REITTickers),
		"etfs":    len(o.cfg.ETFTickers),
		"workers": o.cfg.Fetch.Workers,
	}).Info("Starting fetch run")

	reits, reitHistories, reitFailed := o.fetchCategory(ctx, o.cfg.REITTickers, market.CategoryREIT)
	etfs, etfHistories, etfFailed := o.fetchCategory(ctx, o.cfg.ETFTickers, market.CategoryETF)

	failed := append(reitFailed, etfFailed...)
	nextUpdate := NextUpdate(now, o.cfg.Fetch.UpdateHourUTC)

	snap := &dataset.Snapshot{
		REITs:         reits,
		ETFs:          etfs,
		REITHistories: reitHistories,
		ETFHistories:  etfHistories,
		Meta: dataset.UpdateMeta{
			LastUpdate:          now.UTC(),
			AutoUpdateEnabled:   o.cfg.Fetch.AutoUpdateEnabled,
			NextScheduledUpdate: nextUpdate,
			Schedule:            dataset.DefaultSchedule(),
		},
	}

	if err := o.writer.Write(snap); err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"reits":  len(reits),
		"etfs":   len(etfs),
		"failed": len(failed),
	}).Info("Fetch run completed")

	return &Report{
		Message:    fmt.Sprintf("fetched %d REITs, %d ETFs (%d failed)", len(reits), len(etfs), len(failed)),
		REITCount:  len(reits),
		ETFCount:   len(etfs),
		Failed:     failed,
		NextUpdate: nextUpdate,
	}, nil
}

// fetchCategory fans one ticker list out over a bounded worker pool and
// collects the successes in the list's original order.
func (o *Orchestrator) fetchCategory(ctx context.Context, tickers []string, cat market.Category) ([]market.Security, map[string]market.History, []string) {
	tickerCh := make(chan string, len(tickers))
	resultCh := make(chan tickerResult, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < o.cfg.Fetch.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.worker(ctx, tickerCh, resultCh, cat)
		}()
	}

	for _, ticker := range tickers {
		tickerCh <- ticker
	}
	close(tickerCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	byTicker := make(map[string]tickerResult, len(tickers))
	var failed []string
	for res := range resultCh {
		if res.err != nil {
			o.logger.WithError(res.err).WithField("ticker", res.ticker).Warn("Ticker fetch failed")
			failed = append(failed, res.ticker)
			continue
		}
		byTicker[res.ticker] = res
	}
	sort.Strings(failed)

	// Preserve configured list order in the published artifact.
	securities := make([]market.Security, 0, len(byTicker))
	histories := make(map[string]market.History, len(byTicker))
	for _, ticker := range tickers {
		res, ok := byTicker[ticker]
		if !ok {
			continue
		}
		securities = append(securities, res.security)
		if len(res.history.Dates) > 0 {
			histories[ticker] = res.history
		}
	}

	return securities, histories, failed
}

// worker fetches tickers until the channel drains or the context ends.
func (o *Orchestrator) worker(ctx context.Context, tickerCh <-chan string, resultCh chan<- tickerResult, cat market.Category) {
	for ticker := range tickerCh {
		select {
		case <-ctx.Done():
			resultCh <- tickerResult{ticker: ticker, err: ctx.Err()}
			continue
		default:
		}

		resultCh <- o.fetchTicker(ctx, ticker, cat)
	}
}

// fetchTicker fetches one ticker's quote and history. Both must succeed;
// a partial record is never published.
func (o *Orchestrator) fetchTicker(ctx context.Context, ticker string, cat market.Category) tickerResult {
	quote, err := o.provider.Quote(ctx, ticker)
	if err != nil {
		return tickerResult{ticker: ticker, err: fmt.Errorf("quote: %w", err)}
	}

	history, err := o.provider.History(ctx, ticker)
	if err != nil {
		return tickerResult{ticker: ticker, err: fmt.Errorf("history: %w", err)}
	}

	return tickerResult{
		ticker:   ticker,
		security: quote.Normalize(cat),
		history:  history,
	}
}
