// Package dashboard holds the read-side state for one dashboard session:
// loaded artifacts, current filter thresholds, and the refresh machinery.
// All state lives in the Store; there are no package-level variables.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/dividendlab/highyield/internal/dataset"
	"github.com/dividendlab/highyield/internal/market"
	"github.com/dividendlab/highyield/internal/screen"
	"github.com/dividendlab/highyield/pkg/logger"
)

// Store is the dashboard's state container. Reads return copies; the only
// writers are Reload (data) and the setter methods (preferences).
type Store struct {
	loader *Loader
	logger *logger.Logger

	mu          sync.RWMutex
	snap        *dataset.Snapshot
	loaded      bool
	lastErr     error
	criteria    screen.Criteria
	autoRefresh bool

	// reloading guards against reentrant refresh triggers.
	reloading sync.Mutex
	inFlight  bool
}

// NewStore creates a store backed by the given loader.
func NewStore(loader *Loader, autoRefresh bool, log *logger.Logger) *Store {
	return &Store{
		loader:      loader,
		logger:      log.WithField("module", "dashboard"),
		criteria:    screen.DefaultCriteria(),
		autoRefresh: autoRefresh,
	}
}

// Reload fetches the artifact set and swaps it in. Manual refresh and the
// periodic timer both land here. A trigger arriving while a reload is in
// flight is dropped, not interleaved; the loading state always terminates,
// success or not.
func (s *Store) Reload(ctx context.Context) error {
	s.reloading.Lock()
	if s.inFlight {
		s.reloading.Unlock()
		s.logger.Debug("Reload already in flight, trigger dropped")
		return nil
	}
	s.inFlight = true
	s.reloading.Unlock()

	defer func() {
		s.reloading.Lock()
		s.inFlight = false
		s.reloading.Unlock()
	}()

	snap, err := s.loader.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	if err != nil {
		s.lastErr = err
		s.logger.WithError(err).Error("Dashboard reload failed")
		return err
	}

	s.snap = snap
	s.lastErr = nil

	s.logger.WithFields(map[string]interface{}{
		"reits": len(snap.REITs),
		"etfs":  len(snap.ETFs),
	}).Info("Dashboard data loaded")

	return nil
}

// Run drives the periodic refresh until ctx ends. The auto-refresh flag is
// checked at tick time: a tick with the flag off is a no-op and the ticker
// stays armed, so toggling the flag needs no timer surgery.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.AutoRefresh() {
				continue
			}
			_ = s.Reload(ctx)
		}
	}
}

// Loaded reports whether an initial load attempt has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LastError returns the most recent load error, nil after a successful load.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Securities returns a copy of one category's loaded list. It returns nil
// when no data has been loaded yet, which callers distinguish from a loaded
// empty list.
func (s *Store) Securities(cat market.Category) []market.Security {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return nil
	}

	src := s.snap.REITs
	if cat == market.CategoryETF {
		src = s.snap.ETFs
	}

	out := make([]market.Security, len(src))
	copy(out, src)
	return out
}

// Histories returns a copy of one category's histories map.
func (s *Store) Histories(cat market.Category) map[string]market.History {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return nil
	}

	src := s.snap.REITHistories
	if cat == market.CategoryETF {
		src = s.snap.ETFHistories
	}

	out := make(map[string]market.History, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Meta returns the loaded update metadata.
func (s *Store) Meta() dataset.UpdateMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return dataset.UpdateMeta{}
	}
	return s.snap.Meta
}

// Screened applies the current criteria to one category's list.
func (s *Store) Screened(cat market.Category) []market.Security {
	list := s.Securities(cat)
	if list == nil {
		return nil
	}
	return screen.Screen(list, s.Criteria())
}

// Criteria returns the current filter thresholds.
func (s *Store) Criteria() screen.Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// SetCriteria replaces the filter thresholds.
func (s *Store) SetCriteria(c screen.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
}

// AutoRefresh reports the periodic refresh preference.
func (s *Store) AutoRefresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoRefresh
}

// SetAutoRefresh toggles the periodic refresh preference.
func (s *Store) SetAutoRefresh(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoRefresh = enabled
}
