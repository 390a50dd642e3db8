package api

import (
	"testing"
	"time"
)

func TestUsageTracker(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	now := start
	u := NewUsageTracker(func() time.Time { return now })

	for i := 0; i < 30; i++ {
		u.Record(SurfaceBrowse)
	}
	for i := 0; i < 6; i++ {
		u.Record(SurfaceTrading)
	}
	if n := u.Record(surfaceAnalytics); n != -1 {
		t.Errorf("Record(analytics) = %d, want -1", n)
	}

	now = start.Add(3 * time.Hour)
	snap := u.Snapshot()

	if snap.TotalCalls != 36 {
		t.Errorf("TotalCalls = %d, want 36", snap.TotalCalls)
	}
	if !snap.TrackingStart.Equal(start) || !snap.CurrentTime.Equal(now) {
		t.Errorf("window = %v..%v", snap.TrackingStart, snap.CurrentTime)
	}
	if len(snap.APIs) != len(TrackedSurfaces) {
		t.Fatalf("len(APIs) = %d, want %d", len(snap.APIs), len(TrackedSurfaces))
	}

	browse := snap.APIs[0]
	if browse.Surface != SurfaceBrowse || browse.Calls != 30 {
		t.Errorf("browse = %+v", browse)
	}
	if browse.HoursElapsed != 3 || browse.CallsPerHour != 10 || browse.EstimatedDaily != 240 {
		t.Errorf("browse rates = %v h, %v/h, %d/day, want 3, 10, 240",
			browse.HoursElapsed, browse.CallsPerHour, browse.EstimatedDaily)
	}
	if snap.EstimatedDailyTotal != 288 {
		t.Errorf("EstimatedDailyTotal = %d, want 288", snap.EstimatedDailyTotal)
	}
	if snap.Level != UsageLow {
		t.Errorf("Level = %q, want low", snap.Level)
	}

	u.Reset()
	snap = u.Snapshot()
	if snap.TotalCalls != 0 || !snap.TrackingStart.Equal(now) {
		t.Errorf("after Reset: TotalCalls = %d, start = %v", snap.TotalCalls, snap.TrackingStart)
	}
	if snap.APIs[0].CallsPerHour != 0 {
		t.Errorf("CallsPerHour = %v, want 0 with no elapsed time", snap.APIs[0].CallsPerHour)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		daily int64
		want  UsageLevel
	}{
		{0, UsageLow},
		{2000, UsageLow},
		{2001, UsageModerate},
		{4000, UsageModerate},
		{4001, UsageHigh},
	}
	for _, tt := range tests {
		if got := levelFor(tt.daily); got != tt.want {
			t.Errorf("levelFor(%d) = %q, want %q", tt.daily, got, tt.want)
		}
	}
}

func TestSiteMapping(t *testing.T) {
	tests := []struct {
		input       string
		site        string
		marketplace string
		siteID      string
	}{
		{"", "EBAY-GB", "EBAY_GB", "3"},
		{"uk", "EBAY-GB", "EBAY_GB", "3"},
		{"US", "EBAY-US", "EBAY_US", "0"},
		{"ebay-de", "EBAY-DE", "EBAY_DE", "77"},
		{"ca", "EBAY-ENCA", "EBAY_CA", "2"},
		{"au", "EBAY-AU", "EBAY_AU", "15"},
		{"mars", "MARS", "EBAY_US", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeSite(tt.input); got != tt.site {
				t.Errorf("NormalizeSite(%q) = %q, want %q", tt.input, got, tt.site)
			}
			if got := MarketplaceID(tt.input); got != tt.marketplace {
				t.Errorf("MarketplaceID(%q) = %q, want %q", tt.input, got, tt.marketplace)
			}
			if got := TradingSiteID(tt.input); got != tt.siteID {
				t.Errorf("TradingSiteID(%q) = %q, want %q", tt.input, got, tt.siteID)
			}
		})
	}
}

func TestSearchCurrency(t *testing.T) {
	tests := map[string]string{
		"EBAY_GB": "GBP",
		"EBAY_DE": "EUR",
		"EBAY_FR": "EUR",
		"EBAY_AU": "AUD",
		"EBAY_CA": "CAD",
		"EBAY_US": "USD",
	}
	for in, want := range tests {
		if got := SearchCurrency(in); got != want {
			t.Errorf("SearchCurrency(%q) = %q, want %q", in, got, want)
		}
	}
}
