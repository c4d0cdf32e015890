package googlenews

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"
)

const (
	// DefaultBaseURL is the Google News host.
	DefaultBaseURL = "https://news.google.com"

	// DefaultTimeout bounds a single feed fetch.
	DefaultTimeout = 10 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Locale selects the feed edition: hl, gl and ceid query parameters.
type Locale struct {
	Language string // hl, e.g. "en-US"
	Country  string // gl, e.g. "US"
	Edition  string // ceid, e.g. "US:en"
}

// DefaultLocale is the English/US edition.
var DefaultLocale = Locale{Language: "en-US", Country: "US", Edition: "US:en"}

// Client fetches Google News search feeds.
type Client struct {
	http   *resty.Client
	locale Locale
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

// WithLocale sets the feed edition.
func WithLocale(locale Locale) ClientOption {
	return func(c *Client) {
		c.locale = locale
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Google News client
func NewClient(opts ...ClientOption) *Client {
	httpClient := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("User-Agent", userAgent)

	c := &Client{
		http:   httpClient,
		locale: DefaultLocale,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search fetches the search feed for query and returns its items in feed order.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("query", query).
			Str("locale", c.locale.Language).
			Msg("Google News feed request")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":    query,
			"hl":   c.locale.Language,
			"gl":   c.locale.Country,
			"ceid": c.locale.Edition,
		}).
		Get("/rss/search")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google News feed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode(), Query: query}
	}

	var feed RSS
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("failed to parse Google News feed: %w", err)
	}

	return feed.Channel.Items, nil
}
