// Package dataset owns the five JSON artifacts the dashboard consumes.
// Artifacts are produced wholesale by one fetch run and replaced as a set;
// nothing in this package mutates an artifact in place.
package dataset

import (
	"time"

	"github.com/dividendlab/highyield/internal/market"
)

// Artifact file names, fixed relative paths under the data directory.
const (
	FileREITs         = "reits.json"
	FileETFs          = "etfs.json"
	FileREITHistories = "reit_histories.json"
	FileETFHistories  = "etf_histories.json"
	FileLastUpdate    = "last_update.json"
)

// ScheduleInfo describes the fetch cadence for display purposes.
type ScheduleInfo struct {
	Days        string `json:"days"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// UpdateMeta is the singleton last_update.json record.
type UpdateMeta struct {
	LastUpdate          time.Time    `json:"lastUpdate"`
	AutoUpdateEnabled   bool         `json:"autoUpdateEnabled"`
	NextScheduledUpdate time.Time    `json:"nextScheduledUpdate"`
	Schedule            ScheduleInfo `json:"schedule"`
}

// Snapshot is the aggregate output of one fetch run, written as a set.
type Snapshot struct {
	REITs         []market.Security
	ETFs          []market.Security
	REITHistories map[string]market.History
	ETFHistories  map[string]market.History
	Meta          UpdateMeta
}

// DefaultSchedule matches the reference deployment cadence.
func DefaultSchedule() ScheduleInfo {
	return ScheduleInfo{
		Days:        "Monday-Friday",
		Time:        "9:00 PM UTC",
		Description: "1 hour after US market close",
	}
}
