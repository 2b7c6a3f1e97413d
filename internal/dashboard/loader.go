package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dividendlab/highyield/internal/dataset"
	"github.com/dividendlab/highyield/internal/market"
	"github.com/dividendlab/highyield/pkg/httputil"
	"github.com/dividendlab/highyield/pkg/logger"
)

// Loader fetches the artifact set over HTTP.
// The four list/history artifacts are required; update metadata is optional
// and its absence falls back to the load time.
type Loader struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewLoader creates a loader reading artifacts under baseURL.
func NewLoader(baseURL string, httpClient *httputil.Client, log *logger.Logger) *Loader {
	return &Loader{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     log.WithField("module", "dashboard"),
	}
}

// Load requests all five artifacts concurrently and assembles a snapshot.
// Any required artifact failing fails the load as a whole; a metadata
// failure only costs the "last updated" value.
func (l *Loader) Load(ctx context.Context) (*dataset.Snapshot, error) {
	snap := &dataset.Snapshot{}

	var (
		wg      sync.WaitGroup
		errMu   sync.Mutex
		loadErr error
		metaErr error
	)

	required := []struct {
		file string
		out  interface{}
	}{
		{dataset.FileREITs, &snap.REITs},
		{dataset.FileETFs, &snap.ETFs},
		{dataset.FileREITHistories, &snap.REITHistories},
		{dataset.FileETFHistories, &snap.ETFHistories},
	}

	for _, req := range required {
		wg.Add(1)
		go func(file string, out interface{}) {
			defer wg.Done()
			if err := l.fetchJSON(ctx, file, out); err != nil {
				errMu.Lock()
				if loadErr == nil {
					loadErr = err
				}
				errMu.Unlock()
			}
		}(req.file, req.out)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		metaErr = l.fetchJSON(ctx, dataset.FileLastUpdate, &snap.Meta)
	}()

	wg.Wait()

	if loadErr != nil {
		return nil, loadErr
	}

	if metaErr != nil {
		// Non-fatal: the four primary artifacts already loaded.
		l.logger.WithError(metaErr).Warn("Update metadata unavailable, using current time")
		snap.Meta = dataset.UpdateMeta{LastUpdate: time.Now().UTC()}
	}

	if snap.REITHistories == nil {
		snap.REITHistories = map[string]market.History{}
	}
	if snap.ETFHistories == nil {
		snap.ETFHistories = map[string]market.History{}
	}

	return snap, nil
}

// fetchJSON GETs one artifact and decodes it.
func (l *Loader) fetchJSON(ctx context.Context, file string, out interface{}) error {
	url := l.baseURL + "/" + file

	resp, err := l.httpClient.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", file, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status code %d", file, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	return nil
}
