package dataset

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dividendlab/highyield/internal/market"
	"github.com/dividendlab/highyield/pkg/logger"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		REITs: []market.Security{
			{Ticker: "AGNC", Name: "AGNC Investment Corp.", Price: 9.5, Yield: 14, Sector: "Real Estate"},
		},
		ETFs: []market.Security{
			{Ticker: "JEPI", Name: "JPMorgan Equity Premium Income ETF", Price: 55.12, Yield: 7.5, Category: "ETF"},
		},
		REITHistories: map[string]market.History{
			"AGNC": {Dates: []string{"2026-08-27", "2026-08-28"}, Prices: []float64{9.4, 9.5}},
		},
		ETFHistories: map[string]market.History{
			"JEPI": {Dates: []string{"2026-08-28"}, Prices: []float64{55.12}},
		},
		Meta: UpdateMeta{
			LastUpdate:          time.Date(2026, 8, 28, 21, 0, 0, 0, time.UTC),
			AutoUpdateEnabled:   true,
			NextScheduledUpdate: time.Date(2026, 8, 31, 21, 0, 0, 0, time.UTC),
			Schedule:            DefaultSchedule(),
		},
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, logger.NewWriter(io.Discard))
	require.NoError(t, err)

	require.NoError(t, w.Write(testSnapshot()))

	store := NewStore(dir)

	reits, err := store.Securities(market.CategoryREIT)
	require.NoError(t, err)
	require.Len(t, reits, 1)
	assert.Equal(t, "AGNC", reits[0].Ticker)
	assert.Equal(t, 14.0, reits[0].Yield)

	etfs, err := store.Securities(market.CategoryETF)
	require.NoError(t, err)
	require.Len(t, etfs, 1)
	assert.Equal(t, "JEPI", etfs[0].Ticker)

	histories, err := store.Histories(market.CategoryREIT)
	require.NoError(t, err)
	require.Contains(t, histories, "AGNC")
	assert.Len(t, histories["AGNC"].Dates, len(histories["AGNC"].Prices))

	meta, err := store.Meta()
	require.NoError(t, err)
	assert.True(t, meta.AutoUpdateEnabled)
	assert.Equal(t, "Monday-Friday", meta.Schedule.Days)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, logger.NewWriter(io.Discard))
	require.NoError(t, err)

	require.NoError(t, w.Write(testSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	require.Len(t, entries, 5)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestWriteNilCollectionsBecomeEmpty(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, logger.NewWriter(io.Discard))
	require.NoError(t, err)

	require.NoError(t, w.Write(&Snapshot{Meta: UpdateMeta{LastUpdate: time.Now()}}))

	data, err := os.ReadFile(filepath.Join(dir, FileREITs))
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))

	data, err = os.ReadFile(filepath.Join(dir, FileREITHistories))
	require.NoError(t, err)
	assert.Equal(t, "{}", strings.TrimSpace(string(data)))
}

func TestWriteOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, logger.NewWriter(io.Discard))
	require.NoError(t, err)

	require.NoError(t, w.Write(testSnapshot()))

	next := testSnapshot()
	next.REITs = []market.Security{
		{Ticker: "NLY", Name: "Annaly Capital Management", Price: 21, Yield: 13.2, Sector: "Real Estate"},
	}
	require.NoError(t, w.Write(next))

	reits, err := NewStore(dir).Securities(market.CategoryREIT)
	require.NoError(t, err)
	require.Len(t, reits, 1)
	assert.Equal(t, "NLY", reits[0].Ticker)
}
