// Package chart merges per-ticker price histories into one table for
// multi-series charting.
package chart

import (
	"sort"

	"github.com/dividendlab/highyield/internal/market"
)

// Point is one chart row: a date plus one optional price per ticker.
type Point struct {
	Date   string             `json:"date"`
	Prices map[string]float64 `json:"prices"`
}

// Align merges histories by index, the dashboard's legacy behavior: the
// table is as long as the longest included history, and at each index the
// first listed ticker that reaches it supplies the row's date. Series with
// different start dates or gaps therefore end up shifted against each
// other; AlignByDate is the corrected variant.
func Align(histories map[string]market.History, tickers []string) []Point {
	maxLen := 0
	for _, ticker := range tickers {
		if h, ok := histories[ticker]; ok && len(h.Dates) > maxLen {
			maxLen = len(h.Dates)
		}
	}

	points := make([]Point, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		point := Point{Prices: make(map[string]float64, len(tickers))}

		for _, ticker := range tickers {
			h, ok := histories[ticker]
			if !ok || i >= len(h.Dates) {
				continue
			}

			// First writer wins for the row's date.
			if point.Date == "" {
				point.Date = h.Dates[i]
			}
			point.Prices[ticker] = h.Prices[i]
		}

		points = append(points, point)
	}

	return points
}

// AlignByDate merges histories with a date-keyed outer join: one row per
// calendar date seen in any included history, sorted ascending, with absent
// tickers simply missing from that row.
func AlignByDate(histories map[string]market.History, tickers []string) []Point {
	rows := make(map[string]map[string]float64)

	for _, ticker := range tickers {
		h, ok := histories[ticker]
		if !ok {
			continue
		}

		for i, date := range h.Dates {
			if rows[date] == nil {
				rows[date] = make(map[string]float64, len(tickers))
			}
			rows[date][ticker] = h.Prices[i]
		}
	}

	dates := make([]string, 0, len(rows))
	for date := range rows {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]Point, len(dates))
	for i, date := range dates {
		points[i] = Point{Date: date, Prices: rows[date]}
	}

	return points
}
