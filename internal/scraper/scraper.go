package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/contrib-tracker/internal/contrib"
	"github.com/pfrederiksen/contrib-tracker/internal/logger"
)

const (
	DefaultBaseURL = "https://github.com"
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	Timeout        = 30 * time.Second

	maxBodySize = 8 << 20
)

// Client fetches contribution pages and summarizes them
type Client struct {
	client  *http.Client
	baseURL string
	now     func() time.Time
	log     *logger.Logger
	maxBody int64
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another host serving /users/{name}/contributions.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default client. Its timeout is forced to Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		cp.Timeout = Timeout
		c.client = &cp
	}
}

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a new Client instance
func New(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL: DefaultBaseURL,
		now:     time.Now,
		log:     logger.Default(),
		maxBody: maxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageURL returns the contributions page for username.
func (c *Client) PageURL(username string) string {
	return fmt.Sprintf("%s/users/%s/contributions", c.baseURL, url.PathEscape(username))
}

// Fetch downloads the raw contributions markup for username.
// Errors are *TransportError or *StatusError.
func (c *Client) Fetch(ctx context.Context, username string) ([]byte, error) {
	pageURL := c.PageURL(username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	logger.RecordTiming("fetch.duration", time.Since(start))
	if err != nil {
		logger.IncrCounter("fetch.transport_error")
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.IncrCounter("fetch.status_error")
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		logger.IncrCounter("fetch.transport_error")
		return nil, &TransportError{URL: pageURL, Err: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(body)) > c.maxBody {
		logger.IncrCounter("fetch.transport_error")
		return nil, &TransportError{URL: pageURL, Err: fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, c.maxBody)}
	}

	logger.IncrCounter("fetch.success")
	c.log.Debug("Fetched contribution page", logger.Fields{
		"username": username,
		"url":      pageURL,
		"bytes":    len(body),
	})

	return body, nil
}

// Stats fetches, extracts and summarizes the last 30 days for username.
//
// On a fetch failure the returned Stats is the sentinel built by contrib.Failed
// and err is the *TransportError or *StatusError. A page without any graph
// cells is not an error: the zeroed summary is returned with a nil error.
func (c *Client) Stats(ctx context.Context, username string) (contrib.Stats, error) {
	body, err := c.Fetch(ctx, username)
	if err != nil {
		c.log.Warn("Could not fetch contributions", logger.Fields{
			"username": username,
			"reason":   Reason(err),
		})
		return contrib.Failed(username, Reason(err)), err
	}

	days, err := Extract(bytes.NewReader(body))
	switch {
	case errors.Is(err, ErrNoContributions):
		logger.IncrCounter("extract.empty")
		c.log.Warn("No contribution days found", logger.Fields{"username": username})
	case err != nil:
		c.log.Error("Could not parse contribution page", logger.Fields{"username": username}, err)
		return contrib.Failed(username, contrib.ParseError), err
	}

	logger.SetGauge("extract.days", float64(len(days)))

	stats := contrib.Summarize(username, days, c.now())
	c.log.Debug("Summarized contributions", logger.Fields{
		"username": username,
		"days":     len(days),
		"total":    stats.TotalContributions,
		"streak":   stats.Streak,
		"last_day": stats.LastDay,
	})

	return stats, nil
}
