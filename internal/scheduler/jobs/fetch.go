package jobs

import (
	"context"
	"fmt"

	"github.com/dividendlab/highyield/internal/fetch"
	"github.com/dividendlab/highyield/pkg/logger"
)

// FetchJob refreshes the artifact set on the weekday evening schedule.
// The orchestrator re-checks the trading day itself, so a holiday-week
// misconfiguration degrades to a no-op rather than a bad write.
type FetchJob struct {
	orchestrator *fetch.Orchestrator
	hourUTC      int
	logger       *logger.Logger
}

// NewFetchJob creates the scheduled fetch job firing at hourUTC on weekdays.
func NewFetchJob(o *fetch.Orchestrator, hourUTC int, log *logger.Logger) *FetchJob {
	return &FetchJob{
		orchestrator: o,
		hourUTC:      hourUTC,
		logger:       log,
	}
}

// Name returns the job name.
func (j *FetchJob) Name() string {
	return "fetch_artifacts"
}

// Schedule returns the cron schedule: weekdays at the configured hour UTC.
func (j *FetchJob) Schedule() string {
	return fmt.Sprintf("0 0 %d * * 1-5", j.hourUTC)
}

// Run executes one fetch run.
func (j *FetchJob) Run(ctx context.Context) error {
	report, err := j.orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("fetch run: %w", err)
	}

	if report.Skipped {
		j.logger.WithField("message", report.Message).Info("Scheduled fetch skipped")
		return nil
	}

	j.logger.WithFields(map[string]interface{}{
		"reits":  report.REITCount,
		"etfs":   report.ETFCount,
		"failed": len(report.Failed),
	}).Info("Scheduled fetch completed")

	return nil
}
