package harvest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
)

const sourceName = "search"

// Doer is the transport dependency of the search client. *http.Client
// satisfies it; tests inject failing doers.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures the search client.
type ClientConfig struct {
	// BaseURL is the search endpoint of the literature interface.
	BaseURL string

	// StartYear restricts results to publications from this year onward.
	// Zero disables the filter.
	StartYear int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// RateLimit is the sustained request rate per second.
	RateLimit float64

	// Burst is the rate limiter burst size.
	Burst int

	// UserAgent is sent with every request.
	UserAgent string
}

func (c *ClientConfig) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RateLimit == 0 {
		c.RateLimit = 3
	}
	if c.Burst == 0 {
		c.Burst = 3
	}
	if c.UserAgent == "" {
		c.UserAgent = "MedBiblio-EnrichmentService/1.0"
	}
}

// Client fetches search result pages from the literature interface. It is
// safe for concurrent use.
type Client struct {
	http    Doer
	limiter *rate.Limiter
	config  ClientConfig
}

// NewClient creates a search client with its own rate-limited HTTP client.
func NewClient(cfg ClientConfig) *Client {
	cfg.applyDefaults()
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		config:  cfg,
	}
}

// NewClientWithDoer creates a search client using the provided transport.
// Used by tests to simulate timeouts and server failures.
func NewClientWithDoer(cfg ClientConfig, doer Doer) *Client {
	c := NewClient(cfg)
	c.http = doer
	return c
}

// transientError marks a failure worth retrying on the same page.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return "transient search failure: " + e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// IsTransient reports whether a FetchPage failure may succeed on retry.
// Transport-level failures (timeouts included) are transient; HTTP error
// statuses are not.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// FetchPage retrieves and parses one result page for a term. Pages are
// 1-based. Transport failures come back as transient errors, non-200
// responses as ExternalAPIError.
func (c *Client) FetchPage(ctx context.Context, term string, page int) ([]domain.Citation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(term, page), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &transientError{err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, "search page request failed", nil)
	}

	return parseResults(resp.Body)
}

// pageURL builds the search URL for a term and page, including the
// start-year filter when configured.
func (c *Client) pageURL(term string, page int) string {
	params := url.Values{}
	params.Set("term", term)
	params.Set("page", strconv.Itoa(page))
	if c.config.StartYear > 0 {
		params.Set("filter", fmt.Sprintf("years.%d-%d", c.config.StartYear, time.Now().Year()))
	}
	return c.config.BaseURL + "?" + params.Encode()
}
