package chart

import (
	"testing"

	"github.com/dividendlab/highyield/internal/market"
)

func testHistories() map[string]market.History {
	return map[string]market.History{
		"AGNC": {
			Dates:  []string{"2026-08-25", "2026-08-26", "2026-08-27"},
			Prices: []float64{9.4, 9.45, 9.5},
		},
		// NLY starts one day later; under index alignment its series shifts.
		"NLY": {
			Dates:  []string{"2026-08-26", "2026-08-27"},
			Prices: []float64{20.8, 21.0},
		},
	}
}

func TestAlignLengthEqualsLongestHistory(t *testing.T) {
	points := Align(testHistories(), []string{"AGNC", "NLY"})

	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
}

func TestAlignFirstWriterWinsDate(t *testing.T) {
	points := Align(testHistories(), []string{"NLY", "AGNC"})

	// NLY listed first: rows 0 and 1 take NLY's dates, row 2 falls back
	// to AGNC, the only series reaching index 2.
	if points[0].Date != "2026-08-26" {
		t.Errorf("Expected row 0 date from NLY, got %s", points[0].Date)
	}
	if points[2].Date != "2026-08-27" {
		t.Errorf("Expected row 2 date from AGNC, got %s", points[2].Date)
	}
}

func TestAlignMisalignsUnequalHistories(t *testing.T) {
	points := Align(testHistories(), []string{"AGNC", "NLY"})

	// Index alignment pairs NLY's 2026-08-26 close with AGNC's 2026-08-25
	// row. This shift is the documented legacy behavior.
	if points[0].Date != "2026-08-25" {
		t.Fatalf("Expected row 0 date 2026-08-25, got %s", points[0].Date)
	}
	if got := points[0].Prices["NLY"]; got != 20.8 {
		t.Errorf("Expected NLY's first close 20.8 on row 0, got %v", got)
	}

	// NLY's series is exhausted one row early.
	if _, ok := points[2].Prices["NLY"]; ok {
		t.Error("Expected no NLY value on the last row")
	}
}

func TestAlignSkipsMissingTickers(t *testing.T) {
	points := Align(testHistories(), []string{"AGNC", "GONE"})

	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
	for _, p := range points {
		if _, ok := p.Prices["GONE"]; ok {
			t.Error("Unexpected value for ticker with no history")
		}
	}
}

func TestAlignEmptyInput(t *testing.T) {
	points := Align(map[string]market.History{}, []string{"AGNC"})

	if len(points) != 0 {
		t.Errorf("Expected no points, got %d", len(points))
	}
}

func TestAlignByDateJoinsOnCalendarDate(t *testing.T) {
	points := AlignByDate(testHistories(), []string{"AGNC", "NLY"})

	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}

	// Row 0 holds only AGNC; NLY has no 2026-08-25 close.
	if points[0].Date != "2026-08-25" {
		t.Errorf("Expected first row 2026-08-25, got %s", points[0].Date)
	}
	if _, ok := points[0].Prices["NLY"]; ok {
		t.Error("Expected no NLY value on 2026-08-25")
	}

	// Matching dates line up on the same row.
	if points[1].Prices["AGNC"] != 9.45 || points[1].Prices["NLY"] != 20.8 {
		t.Errorf("Expected aligned closes on 2026-08-26, got %v", points[1].Prices)
	}
	if points[2].Prices["AGNC"] != 9.5 || points[2].Prices["NLY"] != 21.0 {
		t.Errorf("Expected aligned closes on 2026-08-27, got %v", points[2].Prices)
	}
}
