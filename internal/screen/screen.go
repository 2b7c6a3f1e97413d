// Package screen ranks securities against user thresholds. Screen is a pure
// function of its inputs; callers re-run it whenever thresholds change.
package screen

import (
	"sort"

	"github.com/dividendlab/highyield/internal/market"
)

// Criteria holds the user-adjustable thresholds.
type Criteria struct {
	MaxPrice float64 `json:"max_price"`
	MinYield float64 `json:"min_yield"`
	TopCount int     `json:"top_count"`
}

// DefaultCriteria matches the dashboard's initial controls.
func DefaultCriteria() Criteria {
	return Criteria{MaxPrice: 50, MinYield: 5, TopCount: 10}
}

// Screen retains securities with price <= MaxPrice and yield >= MinYield,
// orders them by yield descending, and truncates to TopCount. Ties in yield
// keep their relative input order. The input slice is never modified; an
// empty result is valid and distinct from nil input meaning "not loaded".
func Screen(list []market.Security, c Criteria) []market.Security {
	out := make([]market.Security, 0, len(list))
	for _, sec := range list {
		if sec.Price <= c.MaxPrice && sec.Yield >= c.MinYield {
			out = append(out, sec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Yield > out[j].Yield
	})

	if c.TopCount > 0 && len(out) > c.TopCount {
		out = out[:c.TopCount]
	}

	return out
}
