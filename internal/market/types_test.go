package market

import "testing"

func TestNormalizeYield(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"fraction", 0.14, 14},
		{"small fraction", 0.0525, 5.25},
		{"already percent", 13.2, 13.2},
		{"boundary one", 1.0, 100},
		{"just above one is percent", 1.5, 1.5},
		{"zero", 0, 0},
		{"negative clamps to zero", -0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeYield(tt.in); got != tt.want {
				t.Errorf("NormalizeYield(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePriceFallback(t *testing.T) {
	q := &RawQuote{
		Ticker:             "AGNC",
		RegularMarketPrice: 9.504,
		DividendYield:      0.14,
	}

	sec := q.Normalize(CategoryREIT)

	if sec.Price != 9.5 {
		t.Errorf("Expected regularMarketPrice fallback 9.5, got %v", sec.Price)
	}
	if sec.Yield != 14 {
		t.Errorf("Expected yield 14, got %v", sec.Yield)
	}
	if sec.Name != "AGNC" {
		t.Errorf("Expected name fallback to ticker, got %q", sec.Name)
	}
	if sec.Sector != "Real Estate" {
		t.Errorf("Expected REIT sector default, got %q", sec.Sector)
	}
	if sec.Category != "" {
		t.Errorf("REIT should not carry a category, got %q", sec.Category)
	}
}

func TestNormalizeNameChain(t *testing.T) {
	q := &RawQuote{
		Ticker:        "JEPI",
		ShortName:     "JPMorgan Equity Premium Inc",
		CurrentPrice:  55.12,
		TrailingYield: 0.075,
	}

	sec := q.Normalize(CategoryETF)

	if sec.Name != "JPMorgan Equity Premium Inc" {
		t.Errorf("Expected shortName fallback, got %q", sec.Name)
	}
	if sec.Yield != 7.5 {
		t.Errorf("Expected trailing yield fallback 7.5, got %v", sec.Yield)
	}
	if sec.Category != "ETF" {
		t.Errorf("Expected ETF category default, got %q", sec.Category)
	}
	if sec.Sector != "" {
		t.Errorf("ETF should not carry a sector, got %q", sec.Sector)
	}
}

func TestNormalizePrefersLongNameAndDividendYield(t *testing.T) {
	q := &RawQuote{
		Ticker:        "NLY",
		LongName:      "Annaly Capital Management, Inc.",
		ShortName:     "Annaly Capital",
		CurrentPrice:  21.0,
		DividendYield: 13.2,
		TrailingYield: 0.01,
		Sector:        "Real Estate",
	}

	sec := q.Normalize(CategoryREIT)

	if sec.Name != "Annaly Capital Management, Inc." {
		t.Errorf("Expected longName, got %q", sec.Name)
	}
	if sec.Yield != 13.2 {
		t.Errorf("Expected already-percent yield kept as 13.2, got %v", sec.Yield)
	}
}
