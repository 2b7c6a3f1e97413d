package market

import (
	"context"
	"math"
)

// Category identifies which of the two configured ticker lists a security
// belongs to. Membership is fixed at startup.
type Category string

const (
	CategoryREIT Category = "reit"
	CategoryETF  Category = "etf"
)

// Security is one tracked instrument as published in the list artifacts.
type Security struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"` // 0 means unknown, not free
	Yield  float64 `json:"yield"` // always percentage form, e.g. 5.25

	// Exactly one of the two is set, depending on category.
	Sector   string `json:"sector,omitempty"`
	Category string `json:"category,omitempty"`
}

// History is an ordered daily closing-price series for one ticker.
// Dates and Prices are always the same length; both empty means no history.
type History struct {
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
}

// RawQuote carries provider-native quote fields before normalization.
// Field fallbacks (current vs regular market price, dividendYield vs yield)
// are resolved by Normalize, not by the provider.
type RawQuote struct {
	Ticker             string
	LongName           string
	ShortName          string
	CurrentPrice       float64
	RegularMarketPrice float64
	DividendYield      float64
	TrailingYield      float64
	Sector             string
	Category           string
	FiftyTwoWeekHigh   float64
	FiftyTwoWeekLow    float64
	Volume             int64
	MarketCap          int64
}

// Provider fetches quote and history data for a single ticker.
// Implementations must confine a ticker's failure to its own error return.
type Provider interface {
	Quote(ctx context.Context, ticker string) (*RawQuote, error)
	History(ctx context.Context, ticker string) (History, error)
}

// NormalizeYield converts a provider-reported yield into percentage form.
// Values above 1 are taken as already-percent; values at or below 1 are taken
// as fractions and scaled by 100. A genuine fractional yield above 100%
// (reported as e.g. 1.5) is misread as 1.5% under this rule; that trade-off
// is deliberate and pinned by tests.
func NormalizeYield(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if v > 1 {
		return round2(v)
	}
	return round2(v * 100)
}

// Normalize resolves the raw quote's field fallbacks into a Security.
// Missing sector/category fall back to the category defaults the reference
// data set uses.
func (q *RawQuote) Normalize(cat Category) Security {
	price := q.CurrentPrice
	if price == 0 {
		price = q.RegularMarketPrice
	}

	yield := q.DividendYield
	if yield == 0 {
		yield = q.TrailingYield
	}

	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	if name == "" {
		name = q.Ticker
	}

	sec := Security{
		Ticker: q.Ticker,
		Name:   name,
		Price:  round2(price),
		Yield:  NormalizeYield(yield),
	}

	switch cat {
	case CategoryREIT:
		sec.Sector = q.Sector
		if sec.Sector == "" {
			sec.Sector = "Real Estate"
		}
	case CategoryETF:
		sec.Category = q.Category
		if sec.Category == "" {
			sec.Category = "ETF"
		}
	}

	return sec
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
