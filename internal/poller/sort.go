package poller

import (
	"slices"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

// SortByEndTime orders items soonest-ending first. Items without an end
// time go last; ties keep their input order.
func SortByEndTime(items []model.Item) {
	slices.SortStableFunc(items, func(a, b model.Item) int {
		return compareTimes(a.EndTime, b.EndTime, false)
	})
}

// SortByPurchaseTime orders items most recent purchase first. Items without
// a purchase time go last; ties keep their input order.
func SortByPurchaseTime(items []model.Item) {
	slices.SortStableFunc(items, func(a, b model.Item) int {
		return compareTimes(a.PurchasedAt, b.PurchasedAt, true)
	})
}

// compareTimes sorts nil after any time.
func compareTimes(a, b *time.Time, descending bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := a.Compare(*b)
	if descending {
		c = -c
	}
	return c
}
