package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/dividendlab/highyield/internal/market"
)

// chartResponse mirrors the slice of Yahoo's v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// History fetches six months of daily closes for a ticker.
// Dates come back ascending; rows with a null close are skipped so the
// date and price sequences always stay the same length.
func (c *Client) History(ctx context.Context, ticker string) (market.History, error) {
	params := url.Values{}
	params.Set("range", "6mo")
	params.Set("interval", "1d")
	fullURL := fmt.Sprintf("%s/%s?%s", c.chartBaseURL, url.PathEscape(ticker), params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return market.History{}, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return market.History{}, fmt.Errorf("unknown ticker %s", ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return market.History{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return market.History{}, fmt.Errorf("read response body failed: %w", err)
	}

	var payload chartResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return market.History{}, fmt.Errorf("parse chart response failed: %w", err)
	}

	if payload.Chart.Error != nil {
		return market.History{}, fmt.Errorf("provider error for %s: %s", ticker, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return market.History{}, fmt.Errorf("empty chart result for %s", ticker)
	}

	hist := parseChartResult(payload.Chart.Result[0])

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"days":   len(hist.Dates),
	}).Debug("Fetched history")

	return hist, nil
}

// parseChartResult pairs timestamps with closes, dropping null closes.
func parseChartResult(r chartResult) market.History {
	hist := market.History{
		Dates:  []string{},
		Prices: []float64{},
	}

	if len(r.Indicators.Quote) == 0 {
		return hist
	}

	closes := r.Indicators.Quote[0].Close
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}

		date := time.Unix(ts, 0).UTC().Format("2006-01-02")
		price := math.Round(*closes[i]*100) / 100

		hist.Dates = append(hist.Dates, date)
		hist.Prices = append(hist.Prices, price)
	}

	return hist
}
