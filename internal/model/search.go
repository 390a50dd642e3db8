package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ListingFilter restricts a search to a buying format.
type ListingFilter string

const (
	FilterAuction    ListingFilter = "auction"
	FilterFixedPrice ListingFilter = "fixed_price"
	FilterBoth       ListingFilter = "both"
)

// DefaultSearchInterval is used when a search does not set its own.
const DefaultSearchInterval = 15 * time.Minute

// ParseListingFilter accepts the filter names used by operators. An empty
// value means both formats.
func ParseListingFilter(s string) (ListingFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "all":
		return FilterBoth, nil
	case "auction":
		return FilterAuction, nil
	case "fixed_price", "fixedprice", "fixed-price", "buy_it_now", "bin":
		return FilterFixedPrice, nil
	default:
		return "", fmt.Errorf("unknown listing type %q", s)
	}
}

// SearchSpec is a saved search. ID is allocated once and survives edits so
// the poller state keyed by it is never orphaned.
type SearchSpec struct {
	ID              string           `json:"id"`
	Account         string           `json:"account"`
	Query           string           `json:"query"`
	Site            string           `json:"site"`
	CategoryID      string           `json:"category_id,omitempty"`
	MinPrice        *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice        *decimal.Decimal `json:"max_price,omitempty"`
	ListingType     ListingFilter    `json:"listing_type"`
	IntervalMinutes int              `json:"interval_minutes"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Interval returns the poll interval, falling back to the default.
func (s SearchSpec) Interval() time.Duration {
	if s.IntervalMinutes <= 0 {
		return DefaultSearchInterval
	}
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// Validate checks the fields a search cannot run without.
func (s SearchSpec) Validate() error {
	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("query is required")
	}
	if s.Account == "" {
		return fmt.Errorf("account is required")
	}
	if s.MinPrice != nil && s.MaxPrice != nil && s.MinPrice.GreaterThan(*s.MaxPrice) {
		return fmt.Errorf("min_price %s exceeds max_price %s", s.MinPrice, s.MaxPrice)
	}
	if s.IntervalMinutes < 0 {
		return fmt.Errorf("interval_minutes must be >= 0")
	}
	return nil
}
