// Package poller implements the diff-and-emit polling engine.
//
// One generic Poller drives four strategies:
//   - Bids: high-bidder transitions, ending-soon alerts, win/loss on vanish
//   - Purchases: new purchases and shipping progress
//   - Watchlist: snapshot refresh only, no events
//   - Search: new results against a cumulative seen set
//
// Each poller runs on its own goroutine. Cycles of one poller are strictly
// sequential; different pollers never wait on each other. Prior state is
// loaded lazily on the first cycle and written back after every completed
// cycle.
package poller
