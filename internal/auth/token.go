package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultScope is the public application scope.
	DefaultScope = "https://api.ebay.com/oauth/api_scope"

	// DefaultTokenLifetime applies when the response omits expires_in.
	DefaultTokenLifetime = 2 * time.Hour

	// ExpiryMargin is subtracted from the lifetime so a token is never used
	// right at its expiry. It is capped at half the lifetime for short tokens.
	ExpiryMargin = 5 * time.Minute
)

// TokenSource fetches and caches an OAuth client-credentials token.
//
// The mutex guards the cached value only. Two callers that both find the
// token stale will both fetch; the later write wins.
type TokenSource struct {
	creds      *Credentials
	tokenURL   string
	scope      string
	httpClient *http.Client
	now        func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// NewTokenSource creates a token source for the given endpoint.
func NewTokenSource(creds *Credentials, tokenURL string, hc *http.Client) *TokenSource {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &TokenSource{
		creds:      creds,
		tokenURL:   tokenURL,
		scope:      DefaultScope,
		httpClient: hc,
		now:        time.Now,
	}
}

// SetClock overrides the time source. Intended for tests.
func (s *TokenSource) SetClock(now func() time.Time) {
	s.now = now
}

// Token returns a valid access token, fetching a new one when the cached
// token is missing or stale. A failed fetch is not remembered; the next call
// tries again.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.token != "" && s.now().Before(s.expiresAt) {
		tok := s.token
		s.mu.Unlock()
		return tok, nil
	}
	s.mu.Unlock()

	tok, lifetime, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.token = tok
	s.expiresAt = s.now().Add(lifetime - min(ExpiryMargin, lifetime/2))
	s.mu.Unlock()

	return tok, nil
}

// Invalidate drops the cached token so the next call refetches.
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}

func (s *TokenSource) fetch(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {s.scope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", s.creds.BasicAuth())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("do token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("token request failed: status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, fmt.Errorf("unmarshal token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", 0, fmt.Errorf("token response has no access_token")
	}

	lifetime := DefaultTokenLifetime
	if tr.ExpiresIn > 0 {
		lifetime = time.Duration(tr.ExpiresIn) * time.Second
	}
	return tr.AccessToken, lifetime, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
