package betconnect

import (
	"net/http"
	"time"
)

type clientSettings struct {
	productionURL   string
	tokenValidity   time.Duration
	refreshInterval time.Duration
}

// Option configures optional client behaviour.
type Option func(*Client, *clientSettings)

// WithEnvironment selects the target deployment.
func WithEnvironment(env Environment) Option {
	return func(c *Client, _ *clientSettings) {
		c.environment = env
	}
}

// WithProductionURL sets the account-specific production base URL. Required
// when the environment is Production; it must end in the betconnect domain.
func WithProductionURL(url string) Option {
	return func(_ *Client, s *clientSettings) {
		s.productionURL = url
	}
}

// WithHTTPClient replaces the transport. Any Doer works, including a
// *http.Client with custom pooling or TLS settings.
func WithHTTPClient(client Doer) Option {
	return func(c *Client, _ *clientSettings) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-call read timeout on the underlying *http.Client.
// It has no effect on a custom Doer supplied with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client, _ *clientSettings) {
		if hc, ok := c.httpClient.(*http.Client); ok {
			hc.Timeout = timeout
		}
	}
}

// WithTokenValidity overrides the token validity window (default 2h).
func WithTokenValidity(d time.Duration) Option {
	return func(_ *Client, s *clientSettings) {
		s.tokenValidity = d
	}
}

// WithRefreshInterval overrides the keep-alive refresh interval (default 15m).
func WithRefreshInterval(d time.Duration) Option {
	return func(_ *Client, s *clientSettings) {
		s.refreshInterval = d
	}
}

// WithPaging overrides the pagination defaults (first page index and
// minimum page size).
func WithPaging(firstPage, minLimit int) Option {
	return func(c *Client, _ *clientSettings) {
		if firstPage > 0 {
			c.firstPage = firstPage
		}
		if minLimit > 0 {
			c.minLimit = minLimit
		}
	}
}

// WithClock replaces the time source. Used by tests to step through the
// token validity window.
func WithClock(now func() time.Time) Option {
	return func(c *Client, _ *clientSettings) {
		c.now = now
	}
}
