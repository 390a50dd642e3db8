package api

import (
	"context"
	"fmt"
	"time"
)

// remoteTTL bounds how often the Analytics API is asked for quotas.
const remoteTTL = 5 * time.Minute

// RemoteQuota is the marketplace-reported daily quota for one surface.
type RemoteQuota struct {
	Limit        int     `json:"limit"`
	Used         int     `json:"used"`
	Remaining    int     `json:"remaining"`
	Reset        string  `json:"reset,omitempty"`
	UsagePercent float64 `json:"usage_percent"`
}

type remoteEntry struct {
	quotas map[Surface]RemoteQuota
	at     time.Time
}

// RemoteUsage fetches daily quotas from the Analytics API. It complements
// the local Usage estimate and is never required for polling.
func (c *Client) RemoteUsage(ctx context.Context) (map[Surface]RemoteQuota, error) {
	c.remoteMu.Lock()
	if e := c.remote; e != nil && c.now().Sub(e.at) < remoteTTL {
		q := e.quotas
		c.remoteMu.Unlock()
		return q, nil
	}
	c.remoteMu.Unlock()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get oauth token: %w", err)
	}

	var resp RateLimitResponse
	if err := c.getJSON(ctx, request{
		surface: surfaceAnalytics,
		url:     c.endpoints.Analytics,
		header:  map[string]string{"Authorization": "Bearer " + token},
	}, &resp); err != nil {
		return nil, fmt.Errorf("get rate limits: %w", err)
	}

	quotas := parseRateLimits(&resp)

	c.remoteMu.Lock()
	c.remote = &remoteEntry{quotas: quotas, at: c.now()}
	c.remoteMu.Unlock()

	return quotas, nil
}

// parseRateLimits keeps the first daily window reported for Browse and
// Trading.
func parseRateLimits(resp *RateLimitResponse) map[Surface]RemoteQuota {
	out := make(map[Surface]RemoteQuota)
	for _, rl := range resp.RateLimits {
		var s Surface
		switch {
		case rl.APIContext == "buy" && rl.APIName == "Browse":
			s = SurfaceBrowse
		case rl.APIContext == "TradingAPI" && rl.APIName == "TradingAPI":
			s = SurfaceTrading
		default:
			continue
		}
		if _, done := out[s]; done {
			continue
		}

	resources:
		for _, res := range rl.Resources {
			for _, rate := range res.Rates {
				if rate.TimeWindow != 86400 {
					continue
				}
				q := RemoteQuota{
					Limit:     rate.Limit,
					Used:      rate.Count,
					Remaining: rate.Remaining,
					Reset:     rate.Reset,
				}
				if rate.Limit > 0 {
					q.UsagePercent = float64(int(float64(rate.Count)/float64(rate.Limit)*1000+0.5)) / 10
				}
				out[s] = q
				break resources
			}
		}
	}
	return out
}
