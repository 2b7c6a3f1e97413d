package yahoo

import (
	"github.com/dividendlab/highyield/internal/market"
	"github.com/dividendlab/highyield/pkg/config"
	"github.com/dividendlab/highyield/pkg/httputil"
	"github.com/dividendlab/highyield/pkg/logger"
)

// Yahoo rejects default Go user agents.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client handles communication with Yahoo Finance.
// All provider calls go through this client.
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	chartBaseURL string
	quoteBaseURL string
	pageBaseURL  string
}

var _ market.Provider = (*Client)(nil)

// NewClient creates a new Yahoo Finance client.
func NewClient(cfg config.YahooConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	httpClient.WithUserAgent(browserUserAgent).WithRateLimit(cfg.RateLimit)

	return &Client{
		httpClient:   httpClient,
		logger:       log.WithField("module", "yahoo"),
		chartBaseURL: cfg.ChartBaseURL,
		quoteBaseURL: cfg.QuoteBaseURL,
		pageBaseURL:  cfg.PageBaseURL,
	}
}

// rawNumber is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper.
type rawNumber struct {
	Raw float64 `json:"raw"`
}

type rawInt struct {
	Raw int64 `json:"raw"`
}
