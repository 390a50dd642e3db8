// Package store persists poller state and saved searches as opaque blobs
// under string keys.
//
// Keys are namespaced by account:
//
//	<account>/bids
//	<account>/purchases
//	<account>/search/<id>
//	<account>/searches
//
// Three backends are provided: Memory for tests and ephemeral runs, SQLite
// for a single node, and Postgres when several watchers share a database.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no blob is stored under the key.
var ErrNotFound = errors.New("store: key not found")

// Store is a versionless key-value blob store. Implementations must be safe
// for concurrent use.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// BidsKey is the bids poller state key.
func BidsKey(account string) string { return account + "/bids" }

// PurchasesKey is the purchases poller state key.
func PurchasesKey(account string) string { return account + "/purchases" }

// SearchKey is the state key of one search poller.
func SearchKey(account, searchID string) string { return account + "/search/" + searchID }

// SearchesKey holds the saved search specs of an account.
func SearchesKey(account string) string { return account + "/searches" }
