// Package auth provides marketplace credentials, Trading API request headers,
// and the OAuth application token used by the Browse API.
package auth

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// CompatibilityLevel is the Trading/Shopping API schema version requested.
const CompatibilityLevel = "967"

// Credentials holds the developer keyset and the user's auth token.
type Credentials struct {
	AppID     string // Client ID from the developer portal
	DevID     string
	CertID    string // Client secret
	UserToken string // Auth'n'Auth token for Trading API calls
}

// LoadCredentials builds credentials, reading the user token from tokenPath
// when token is empty.
func LoadCredentials(appID, devID, certID, token, tokenPath string) (*Credentials, error) {
	if appID == "" {
		return nil, fmt.Errorf("app ID is required")
	}
	if certID == "" {
		return nil, fmt.Errorf("cert ID is required")
	}

	if token == "" && tokenPath != "" {
		t, err := LoadToken(tokenPath)
		if err != nil {
			return nil, fmt.Errorf("load user token: %w", err)
		}
		token = t
	}

	return &Credentials{
		AppID:     appID,
		DevID:     devID,
		CertID:    certID,
		UserToken: token,
	}, nil
}

// LoadToken reads a user token from a file, trimming surrounding whitespace.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}
	return token, nil
}

// HasUserToken reports whether account-level (Trading API) calls can be made.
func (c *Credentials) HasUserToken() bool {
	return c != nil && c.UserToken != ""
}

// TradingHeaders returns the headers for a Trading API XML call.
func (c *Credentials) TradingHeaders(callName, siteID string) map[string]string {
	return map[string]string{
		"X-EBAY-API-SITEID":              siteID,
		"X-EBAY-API-COMPATIBILITY-LEVEL": CompatibilityLevel,
		"X-EBAY-API-CALL-NAME":           callName,
		"X-EBAY-API-APP-NAME":            c.AppID,
		"X-EBAY-API-DEV-NAME":            c.DevID,
		"X-EBAY-API-CERT-NAME":           c.CertID,
		"Content-Type":                   "text/xml",
	}
}

// BasicAuth returns the Authorization header value for the OAuth token
// endpoint.
func (c *Credentials) BasicAuth() string {
	raw := c.AppID + ":" + c.CertID
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}
