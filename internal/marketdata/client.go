package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/marketpulse/internal/domain/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; marketpulse/1.0)"

	chartPath = "/v8/finance/chart/"
)

// ErrFetchFailure wraps any transport, status or decoding problem while
// talking to the provider.
var ErrFetchFailure = errors.New("market data fetch failed")

// Fetcher retrieves daily bars for one identifier over a date range.
// An identifier without data in the range yields an empty slice and no error.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, r models.DateRange) ([]models.Bar, error)
}

// Config holds the provider connection settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type yahooClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewYahooClient returns a Fetcher backed by the Yahoo Finance chart API.
// Zero-valued Config fields fall back to the package defaults.
func NewYahooClient(cfg Config) Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &yahooClient{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
	}
}

// FetchBars performs a single request for symbol's daily history.
//
// Behavior:
//   - Both ends of r are inclusive; the provider's period2 is exclusive so
//     one day is added to the stop date.
//   - Dates are taken in the exchange's local calendar and returned as UTC
//     midnight.
//   - A 404 or a "Not Found" chart error means no data and returns an empty slice.
//   - Rows with a missing close are skipped; a missing adjusted close falls
//     back to the close.
func (c *yahooClient) FetchBars(ctx context.Context, symbol string, r models.DateRange) ([]models.Bar, error) {
	endpoint := c.buildRequestURL(symbol, r)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", ErrFetchFailure, symbol, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailure, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body for %s: %w", ErrFetchFailure, symbol, err)
	}

	var payload chartResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode == http.StatusNotFound || (decodeErr == nil && payload.Chart.Error.isNotFound()) {
		return []models.Bar{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrFetchFailure, symbol, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrFetchFailure, symbol, decodeErr)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetchFailure, symbol, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return []models.Bar{}, nil
	}

	return payload.Chart.Result[0].bars(), nil
}

func (c *yahooClient) buildRequestURL(symbol string, r models.DateRange) string {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(r.Start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(r.Stop.AddDate(0, 0, 1).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "div,splits")
	q.Set("includeAdjustedClose", "true")
	return c.baseURL + chartPath + url.PathEscape(symbol) + "?" + q.Encode()
}
