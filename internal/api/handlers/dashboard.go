package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dividendlab/highyield/internal/chart"
	"github.com/dividendlab/highyield/internal/dataset"
	"github.com/dividendlab/highyield/internal/fetch"
	"github.com/dividendlab/highyield/internal/market"
	"github.com/dividendlab/highyield/internal/scheduler"
	"github.com/dividendlab/highyield/internal/screen"
	"github.com/dividendlab/highyield/pkg/logger"
)

// DashboardHandler handles the dashboard API endpoints.
type DashboardHandler struct {
	store        *dataset.Store
	orchestrator *fetch.Orchestrator
	scheduler    *scheduler.Scheduler
	logger       *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(
	store *dataset.Store,
	orchestrator *fetch.Orchestrator,
	sched *scheduler.Scheduler,
	log *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		store:        store,
		orchestrator: orchestrator,
		scheduler:    sched,
		logger:       log,
	}
}

// parseCategory maps the category query parameter, defaulting to REITs.
func parseCategory(r *http.Request) (market.Category, bool) {
	switch strings.ToLower(r.URL.Query().Get("category")) {
	case "", "reit", "reits":
		return market.CategoryREIT, true
	case "etf", "etfs":
		return market.CategoryETF, true
	default:
		return "", false
	}
}

// ScreenResponse is the ranked filter result.
type ScreenResponse struct {
	Category string            `json:"category"`
	Criteria screen.Criteria   `json:"criteria"`
	Count    int               `json:"count"`
	Results  []market.Security `json:"results"`
}

// GetScreen applies thresholds to the current artifact set.
// GET /api/screen?category=reit&maxPrice=20&minYield=5&top=10
func (h *DashboardHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	cat, ok := parseCategory(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "category must be reit or etf")
		return
	}

	criteria := screen.DefaultCriteria()
	q := r.URL.Query()
	if v := q.Get("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid maxPrice")
			return
		}
		criteria.MaxPrice = f
	}
	if v := q.Get("minYield"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid minYield")
			return
		}
		criteria.MinYield = f
	}
	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid top")
			return
		}
		criteria.TopCount = n
	}

	list, err := h.store.Securities(cat)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respondError(w, http.StatusNotFound, "no data yet, run a fetch first")
			return
		}
		h.logger.WithError(err).Error("Failed to load securities")
		respondError(w, http.StatusInternalServerError, "failed to load data")
		return
	}

	results := screen.Screen(list, criteria)

	respondJSON(w, http.StatusOK, ScreenResponse{
		Category: string(cat),
		Criteria: criteria,
		Count:    len(results),
		Results:  results,
	})
}

// ChartResponse is the aligned chart table.
type ChartResponse struct {
	Category string        `json:"category"`
	Mode     string        `json:"mode"`
	Tickers  []string      `json:"tickers"`
	Points   []chart.Point `json:"points"`
}

// GetChart returns the merged price table for a category.
// GET /api/chart?category=etf&mode=date&tickers=JEPI,QYLD
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	cat, ok := parseCategory(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "category must be reit or etf")
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "index"
	}
	if mode != "index" && mode != "date" {
		respondError(w, http.StatusBadRequest, "mode must be index or date")
		return
	}

	histories, err := h.store.Histories(cat)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respondError(w, http.StatusNotFound, "no data yet, run a fetch first")
			return
		}
		h.logger.WithError(err).Error("Failed to load histories")
		respondError(w, http.StatusInternalServerError, "failed to load data")
		return
	}

	var tickers []string
	if raw := r.URL.Query().Get("tickers"); raw != "" {
		for _, tk := range strings.Split(raw, ",") {
			if tk = strings.ToUpper(strings.TrimSpace(tk)); tk != "" {
				tickers = append(tickers, tk)
			}
		}
	} else {
		// Default to the category's published list order.
		list, err := h.store.Securities(cat)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load securities")
			respondError(w, http.StatusInternalServerError, "failed to load data")
			return
		}
		for _, sec := range list {
			tickers = append(tickers, sec.Ticker)
		}
	}

	var points []chart.Point
	if mode == "date" {
		points = chart.AlignByDate(histories, tickers)
	} else {
		points = chart.Align(histories, tickers)
	}

	respondJSON(w, http.StatusOK, ChartResponse{
		Category: string(cat),
		Mode:     mode,
		Tickers:  tickers,
		Points:   points,
	})
}

// RefreshResponse is the manual refresh envelope.
type RefreshResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Refresh triggers a fetch run synchronously.
// POST /api/refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	report, err := h.orchestrator.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Manual refresh failed")
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, RefreshResponse{
		Success:   true,
		Message:   report.Message,
		Timestamp: time.Now().UTC(),
	})
}

// GetJobs returns scheduler statistics.
// GET /api/jobs
func (h *DashboardHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.scheduler.Stats())
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
