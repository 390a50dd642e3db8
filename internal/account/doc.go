// Package account owns the pollers of each marketplace account and exposes
// the operator actions: refreshes, rate-limit reports and saved-search
// management.
//
// Every account runs three activity pollers (bids, watchlist, purchases)
// sharing one marketplace client, plus one poller per saved search. Saved
// searches are persisted in the state store and restored at start.
package account
