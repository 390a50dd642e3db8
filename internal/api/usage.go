package api

import (
	"math"
	"sync"
	"time"
)

// Surface names a marketplace API family with its own quota.
type Surface string

const (
	SurfaceBrowse   Surface = "browse"
	SurfaceTrading  Surface = "trading"
	SurfaceShopping Surface = "shopping"

	// surfaceAnalytics is not quota-tracked.
	surfaceAnalytics Surface = "analytics"
)

// TrackedSurfaces lists the surfaces reported by Usage.
var TrackedSurfaces = []Surface{SurfaceBrowse, SurfaceTrading, SurfaceShopping}

// Daily call estimates above these levels are reported as moderate or high.
const (
	ModerateDailyCalls = 2000
	HighDailyCalls     = 4000
)

// UsageLevel summarises the estimated daily call volume.
type UsageLevel string

const (
	UsageLow      UsageLevel = "low"
	UsageModerate UsageLevel = "moderate"
	UsageHigh     UsageLevel = "high"
)

type counter struct {
	calls int64
	since time.Time
}

// UsageTracker counts calls per surface since the last reset. It is an
// estimate only and never blocks a call.
type UsageTracker struct {
	now func() time.Time

	mu       sync.Mutex
	counters map[Surface]*counter
}

// NewUsageTracker creates a tracker starting now.
func NewUsageTracker(now func() time.Time) *UsageTracker {
	if now == nil {
		now = time.Now
	}
	u := &UsageTracker{now: now, counters: make(map[Surface]*counter)}
	u.Reset()
	return u
}

// Record increments the surface counter and returns the new count.
// Untracked surfaces return -1.
func (u *UsageTracker) Record(s Surface) int64 {
	u.mu.Lock()
	defer u.mu.Unlock()

	c, ok := u.counters[s]
	if !ok {
		return -1
	}
	c.calls++
	return c.calls
}

// Reset zeroes every counter and restarts the tracking window.
func (u *UsageTracker) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	for _, s := range TrackedSurfaces {
		u.counters[s] = &counter{since: now}
	}
}

// SurfaceUsage is the derived usage of one surface.
type SurfaceUsage struct {
	Surface        Surface   `json:"api_name"`
	Calls          int64     `json:"calls_made"`
	Since          time.Time `json:"tracking_since"`
	HoursElapsed   float64   `json:"hours_elapsed"`
	CallsPerHour   float64   `json:"calls_per_hour"`
	EstimatedDaily int64     `json:"estimated_daily"`
}

// UsageSnapshot is a point-in-time report of local call tracking.
type UsageSnapshot struct {
	TrackingStart       time.Time      `json:"tracking_start"`
	CurrentTime         time.Time      `json:"current_time"`
	APIs                []SurfaceUsage `json:"apis"`
	TotalCalls          int64          `json:"total_calls"`
	EstimatedDailyTotal int64          `json:"estimated_daily_total"`
	Level               UsageLevel     `json:"level"`
}

// Snapshot derives rates from the counters.
func (u *UsageTracker) Snapshot() UsageSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	snap := UsageSnapshot{CurrentTime: now}

	for _, s := range TrackedSurfaces {
		c := u.counters[s]
		if snap.TrackingStart.IsZero() || c.since.Before(snap.TrackingStart) {
			snap.TrackingStart = c.since
		}

		hours := now.Sub(c.since).Hours()
		var perHour float64
		if hours > 0 {
			perHour = float64(c.calls) / hours
		}

		su := SurfaceUsage{
			Surface:        s,
			Calls:          c.calls,
			Since:          c.since,
			HoursElapsed:   math.Round(hours*100) / 100,
			CallsPerHour:   math.Round(perHour*10) / 10,
			EstimatedDaily: int64(math.Round(perHour * 24)),
		}
		snap.APIs = append(snap.APIs, su)
		snap.TotalCalls += su.Calls
		snap.EstimatedDailyTotal += su.EstimatedDaily
	}

	snap.Level = levelFor(snap.EstimatedDailyTotal)
	return snap
}

func levelFor(daily int64) UsageLevel {
	switch {
	case daily > HighDailyCalls:
		return UsageHigh
	case daily > ModerateDailyCalls:
		return UsageModerate
	default:
		return UsageLow
	}
}
