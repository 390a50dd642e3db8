package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rickgao/auction-watch/internal/auth"
)

// Default endpoints for each API surface.
const (
	DefaultBrowseURL    = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	DefaultTradingURL   = "https://api.ebay.com/ws/api.dll"
	DefaultShoppingURL  = "https://open.api.ebay.com/shopping"
	DefaultOAuthURL     = "https://api.ebay.com/identity/v1/oauth2/token"
	DefaultAnalyticsURL = "https://api.ebay.com/developer/analytics/v1_beta/rate_limit"

	// DefaultActivityTTL is how long a "my activity" result is reused.
	DefaultActivityTTL = 30 * time.Second
)

// Endpoints holds the URL of every API surface the client talks to.
type Endpoints struct {
	Browse    string
	Trading   string
	Shopping  string
	OAuth     string
	Analytics string
}

// DefaultEndpoints returns the production endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Browse:    DefaultBrowseURL,
		Trading:   DefaultTradingURL,
		Shopping:  DefaultShoppingURL,
		OAuth:     DefaultOAuthURL,
		Analytics: DefaultAnalyticsURL,
	}
}

// CallObserver is notified after every HTTP attempt.
type CallObserver func(surface Surface, err error)

// Client provides access to the marketplace APIs for one account.
//
// A Client is safe for concurrent use by the pollers of its account. The
// activity cache and identity are guarded by short critical sections that
// are never held across a network call.
type Client struct {
	endpoints  Endpoints
	creds      *auth.Credentials
	site       string
	httpClient *http.Client
	tokens     *auth.TokenSource
	logger     *slog.Logger
	now        func() time.Time

	maxRetries   int
	retryBackoff time.Duration

	activityTTL time.Duration
	usage       *UsageTracker
	observer    CallObserver

	identityMu sync.Mutex
	identity   string

	cacheMu  sync.Mutex
	activity *activityEntry

	remoteMu sync.Mutex
	remote   *remoteEntry
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a marketplace client for the given credentials and site.
func NewClient(creds *auth.Credentials, site string, opts ...ClientOption) *Client {
	c := &Client{
		endpoints: DefaultEndpoints(),
		creds:     creds,
		site:      NormalizeSite(site),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		now:          time.Now,
		maxRetries:   3,
		retryBackoff: time.Second,
		activityTTL:  DefaultActivityTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.usage = NewUsageTracker(c.now)
	c.tokens = auth.NewTokenSource(creds, c.endpoints.OAuth, c.httpClient)
	c.tokens.SetClock(c.now)

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoints overrides the API endpoints. Empty fields keep their default.
func WithEndpoints(e Endpoints) ClientOption {
	return func(c *Client) {
		if e.Browse != "" {
			c.endpoints.Browse = e.Browse
		}
		if e.Trading != "" {
			c.endpoints.Trading = e.Trading
		}
		if e.Shopping != "" {
			c.endpoints.Shopping = e.Shopping
		}
		if e.OAuth != "" {
			c.endpoints.OAuth = e.OAuth
		}
		if e.Analytics != "" {
			c.endpoints.Analytics = e.Analytics
		}
	}
}

// WithActivityTTL sets how long a "my activity" result is reused.
func WithActivityTTL(d time.Duration) ClientOption {
	return func(c *Client) {
		c.activityTTL = d
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// WithCallObserver registers a hook invoked after every HTTP attempt.
func WithCallObserver(fn CallObserver) ClientOption {
	return func(c *Client) {
		c.observer = fn
	}
}

// Site returns the normalized site code, e.g. "EBAY-GB".
func (c *Client) Site() string {
	return c.site
}

// Identity returns the authenticated username once it has been resolved.
func (c *Client) Identity() (string, bool) {
	c.identityMu.Lock()
	defer c.identityMu.Unlock()
	return c.identity, c.identity != ""
}

// Usage returns the local call counters. No remote call is made.
func (c *Client) Usage() UsageSnapshot {
	return c.usage.Snapshot()
}

// ResetUsage zeroes the local call counters.
func (c *Client) ResetUsage() {
	c.usage.Reset()
	c.logger.Info("api call tracking reset")
}
