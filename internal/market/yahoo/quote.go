package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dividendlab/highyield/internal/market"
)

// quoteSummaryResponse mirrors the slice of Yahoo's quoteSummary payload we read.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price struct {
		LongName           string    `json:"longName"`
		ShortName          string    `json:"shortName"`
		RegularMarketPrice rawNumber `json:"regularMarketPrice"`
	} `json:"price"`
	SummaryDetail struct {
		DividendYield    rawNumber `json:"dividendYield"`
		Yield            rawNumber `json:"yield"`
		FiftyTwoWeekHigh rawNumber `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  rawNumber `json:"fiftyTwoWeekLow"`
		Volume           rawInt    `json:"volume"`
		MarketCap        rawInt    `json:"marketCap"`
	} `json:"summaryDetail"`
	FinancialData struct {
		CurrentPrice rawNumber `json:"currentPrice"`
	} `json:"financialData"`
	AssetProfile struct {
		Sector string `json:"sector"`
	} `json:"assetProfile"`
	FundProfile struct {
		CategoryName string `json:"categoryName"`
	} `json:"fundProfile"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Quote fetches one ticker's quote fields from the quoteSummary endpoint.
// A failed or malformed response is an error for this ticker only.
func (c *Client) Quote(ctx context.Context, ticker string) (*market.RawQuote, error) {
	params := url.Values{}
	params.Set("modules", "price,summaryDetail,financialData,assetProfile,fundProfile")
	fullURL := fmt.Sprintf("%s/%s?%s", c.quoteBaseURL, url.PathEscape(ticker), params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("unknown ticker %s", ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	var payload quoteSummaryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse quote response failed: %w", err)
	}

	if payload.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("provider error for %s: %s", ticker, payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty quote result for %s", ticker)
	}

	r := payload.QuoteSummary.Result[0]
	quote := &market.RawQuote{
		Ticker:             ticker,
		LongName:           r.Price.LongName,
		ShortName:          r.Price.ShortName,
		CurrentPrice:       r.FinancialData.CurrentPrice.Raw,
		RegularMarketPrice: r.Price.RegularMarketPrice.Raw,
		DividendYield:      r.SummaryDetail.DividendYield.Raw,
		TrailingYield:      r.SummaryDetail.Yield.Raw,
		Sector:             r.AssetProfile.Sector,
		Category:           r.FundProfile.CategoryName,
		FiftyTwoWeekHigh:   r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		FiftyTwoWeekLow:    r.SummaryDetail.FiftyTwoWeekLow.Raw,
		Volume:             r.SummaryDetail.Volume.Raw,
		MarketCap:          r.SummaryDetail.MarketCap.Raw,
	}

	// Some fund tickers omit both names from quoteSummary; the quote page
	// still carries one in its heading.
	if quote.LongName == "" && quote.ShortName == "" {
		if name, err := c.scrapeName(ctx, ticker); err == nil && name != "" {
			quote.LongName = name
		} else if err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Name scrape fallback failed")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"price":  quote.RegularMarketPrice,
	}).Debug("Fetched quote")

	return quote, nil
}

// scrapeName extracts the display name from the ticker's quote page heading.
func (c *Client) scrapeName(ctx context.Context, ticker string) (string, error) {
	fullURL := fmt.Sprintf("%s/%s", c.pageBaseURL, url.PathEscape(ticker))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", fmt.Errorf("quote page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse quote page failed: %w", err)
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())

	// The heading reads "Name (TICKER)"; strip the trailing symbol.
	if idx := strings.LastIndex(name, "("); idx > 0 {
		name = strings.TrimSpace(name[:idx])
	}

	return name, nil
}
