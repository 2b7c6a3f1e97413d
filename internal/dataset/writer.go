package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dividendlab/highyield/internal/market"
	"github.com/dividendlab/highyield/pkg/logger"
)

// Writer serializes fetch-run snapshots into the artifact directory.
type Writer struct {
	dir    string
	logger *logger.Logger
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string, log *logger.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &Writer{
		dir:    dir,
		logger: log.WithField("module", "dataset"),
	}, nil
}

// Dir returns the artifact directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write replaces the whole artifact set from one snapshot.
// Each file is written to a temp file and renamed so a reader never sees a
// torn document. Nil slices/maps are written as empty ones.
func (w *Writer) Write(snap *Snapshot) error {
	reits := snap.REITs
	if reits == nil {
		reits = []market.Security{}
	}
	etfs := snap.ETFs
	if etfs == nil {
		etfs = []market.Security{}
	}
	reitHistories := snap.REITHistories
	if reitHistories == nil {
		reitHistories = map[string]market.History{}
	}
	etfHistories := snap.ETFHistories
	if etfHistories == nil {
		etfHistories = map[string]market.History{}
	}

	files := []struct {
		name string
		data interface{}
	}{
		{FileREITs, reits},
		{FileETFs, etfs},
		{FileREITHistories, reitHistories},
		{FileETFHistories, etfHistories},
		{FileLastUpdate, snap.Meta},
	}

	for _, f := range files {
		if err := w.writeFile(f.name, f.data); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	w.logger.WithFields(map[string]interface{}{
		"reits":     len(reits),
		"etfs":      len(etfs),
		"histories": len(reitHistories) + len(etfHistories),
	}).Info("Artifact set written")

	return nil
}

// writeFile marshals data and atomically replaces the named artifact.
func (w *Writer) writeFile(name string, data interface{}) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
