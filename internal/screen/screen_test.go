package screen

import (
	"reflect"
	"testing"

	"github.com/dividendlab/highyield/internal/market"
)

func sampleList() []market.Security {
	return []market.Security{
		{Ticker: "AGNC", Price: 9.5, Yield: 14},
		{Ticker: "NLY", Price: 21, Yield: 13.2},
		{Ticker: "ORC", Price: 7, Yield: 18},
	}
}

func tickersOf(list []market.Security) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Ticker
	}
	return out
}

func TestScreenFiltersAndRanks(t *testing.T) {
	got := Screen(sampleList(), Criteria{MaxPrice: 20, MinYield: 5, TopCount: 3})

	// NLY excluded (price > 20); remainder ordered by yield descending.
	want := []string{"ORC", "AGNC"}
	if !reflect.DeepEqual(tickersOf(got), want) {
		t.Errorf("Screen() = %v, want %v", tickersOf(got), want)
	}
}

func TestScreenEveryResultSatisfiesThresholds(t *testing.T) {
	c := Criteria{MaxPrice: 25, MinYield: 10, TopCount: 10}

	for _, sec := range Screen(sampleList(), c) {
		if sec.Price > c.MaxPrice {
			t.Errorf("%s price %v exceeds MaxPrice %v", sec.Ticker, sec.Price, c.MaxPrice)
		}
		if sec.Yield < c.MinYield {
			t.Errorf("%s yield %v below MinYield %v", sec.Ticker, sec.Yield, c.MinYield)
		}
	}
}

func TestScreenTruncatesToTopCount(t *testing.T) {
	got := Screen(sampleList(), Criteria{MaxPrice: 100, MinYield: 0, TopCount: 1})

	if len(got) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(got))
	}
	if got[0].Ticker != "ORC" {
		t.Errorf("Expected highest-yield ORC first, got %s", got[0].Ticker)
	}
}

func TestScreenStableTies(t *testing.T) {
	list := []market.Security{
		{Ticker: "AAA", Price: 10, Yield: 12},
		{Ticker: "BBB", Price: 11, Yield: 12},
		{Ticker: "CCC", Price: 9, Yield: 12},
	}

	got := Screen(list, Criteria{MaxPrice: 20, MinYield: 5, TopCount: 5})

	// Equal yields preserve input order.
	want := []string{"AAA", "BBB", "CCC"}
	if !reflect.DeepEqual(tickersOf(got), want) {
		t.Errorf("Screen() tie order = %v, want %v", tickersOf(got), want)
	}
}

func TestScreenIsPureAndRepeatable(t *testing.T) {
	list := sampleList()
	c := Criteria{MaxPrice: 20, MinYield: 5, TopCount: 3}

	first := Screen(list, c)
	second := Screen(list, c)

	if !reflect.DeepEqual(first, second) {
		t.Error("Screen() is not repeatable for identical inputs")
	}

	// Input order untouched.
	if !reflect.DeepEqual(tickersOf(list), []string{"AGNC", "NLY", "ORC"}) {
		t.Errorf("Screen() mutated its input: %v", tickersOf(list))
	}
}

func TestScreenEmptyResultIsValid(t *testing.T) {
	got := Screen(sampleList(), Criteria{MaxPrice: 1, MinYield: 99, TopCount: 10})

	if got == nil {
		t.Fatal("Expected empty non-nil result")
	}
	if len(got) != 0 {
		t.Errorf("Expected no results, got %v", tickersOf(got))
	}
}
