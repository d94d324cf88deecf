package betconnect

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	stagingURL          = "https://staging.betconnect.com/"
	productionURLSuffix = ".betconnect.com/"

	defaultTokenValidity   = 2 * time.Hour
	defaultRefreshInterval = 15 * time.Minute
	defaultReadTimeout     = 100 * time.Second

	defaultFirstPage = 1
	defaultMinLimit  = 20
)

// Doer is the transport collaborator. Any HTTP client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a BetConnect API client. All operations are synchronous and
// block until the round-trip completes; the only automatic recovery is a
// single re-login when the token has expired.
type Client struct {
	baseURL     string
	environment Environment
	httpClient  Doer
	logger      zerolog.Logger
	session     *session
	loginFlight singleflight.Group
	now         func() time.Time

	firstPage int
	minLimit  int
}

// NewClient creates a client for the given credentials. The default
// environment is Staging; Production requires WithProductionURL because
// production base URLs are account-specific.
func NewClient(username, password, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if username == "" || password == "" || apiKey == "" {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		baseURL:     stagingURL,
		environment: Staging,
		httpClient:  &http.Client{Timeout: defaultReadTimeout},
		logger:      logger,
		now:         time.Now,
		firstPage:   defaultFirstPage,
		minLimit:    defaultMinLimit,
	}
	settings := clientSettings{
		tokenValidity:   defaultTokenValidity,
		refreshInterval: defaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(c, &settings)
	}

	if !c.environment.Valid() {
		return nil, ErrUnknownEnvironment
	}
	if settings.tokenValidity <= 0 || settings.refreshInterval <= 0 {
		return nil, ErrInvalidSessionWindow
	}
	if c.environment == Production {
		url, err := validateProductionURL(settings.productionURL)
		if err != nil {
			return nil, err
		}
		c.baseURL = url
	}

	c.session = newSession(username, password, apiKey, settings.tokenValidity, settings.refreshInterval)
	return c, nil
}

// validateProductionURL checks the account-specific production URL ends in
// the betconnect domain, normalising the trailing slash.
func validateProductionURL(url string) (string, error) {
	if url == "" {
		return "", ErrInvalidProductionURL
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	if !strings.HasSuffix(url, productionURLSuffix) {
		return "", ErrInvalidProductionURL
	}
	return url, nil
}

// Environment returns the environment this client targets.
func (c *Client) Environment() Environment { return c.environment }

// BaseURL returns the resolved endpoint base.
func (c *Client) BaseURL() string { return c.baseURL }

// IsAuthenticated reports whether the session token is inside its validity
// window.
func (c *Client) IsAuthenticated() bool {
	return c.session.isAuthenticated(c.now())
}

// RefreshDue reports whether the shorter keep-alive interval has elapsed and
// a RefreshSessionToken call is advisable. There is no background refresh
// loop; the caller decides when to act on this.
func (c *Client) RefreshDue() bool {
	return c.session.refreshDue(c.now())
}

// CachedPreferences returns the account snapshot captured at login, if any.
func (c *Client) CachedPreferences() (*AccountPreferences, bool) {
	return c.session.cachedPreferences()
}

// CachedBalance returns the last balance snapshot and when it was taken.
func (c *Client) CachedBalance() (*Balance, time.Time, bool) {
	return c.session.cachedBalance()
}
