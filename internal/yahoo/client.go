package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"
)

const (
	// DefaultBaseURL is the base URL for the Yahoo Finance query API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRange covers a week so weekends and holidays still leave two sessions.
	DefaultRange = "7d"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client is a Yahoo Finance chart API client.
type Client struct {
	http   *resty.Client
	logger arbor.ILogger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.http.SetBaseURL(strings.TrimRight(baseURL, "/"))
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new chart API client.
func NewClient(opts ...ClientOption) *Client {
	httpClient := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)

	c := &Client{http: httpClient}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// DailyCloses returns the daily closing prices for symbol over rangeParam
// (e.g. "7d"), oldest first. Intervals without a close are skipped.
func (c *Client) DailyCloses(ctx context.Context, symbol, rangeParam string) ([]float64, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}
	if rangeParam == "" {
		rangeParam = DefaultRange
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("symbol", symbol).
			Str("range", rangeParam).
			Msg("Yahoo chart request")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("symbol", strings.ToUpper(symbol)).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    rangeParam,
		}).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("failed to execute chart request for %s: %w", symbol, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Message:    strings.TrimSpace(resp.String()),
			Symbol:     symbol,
		}
	}

	var chart chartResponse
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response for %s: %w", symbol, err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w for %s: %s", ErrNoData, symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}

	raw := chart.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	for _, value := range raw {
		if value == nil {
			continue
		}
		closes = append(closes, *value)
	}

	return closes, nil
}
