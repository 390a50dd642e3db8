// Package model defines shared data types used across the watcher.
//
// Conventions:
//   - Prices: decimal.Decimal amount plus ISO 4217 currency code
//   - Timestamps: time.Time in UTC; optional times are pointers
//   - IDs: marketplace item IDs are strings, event IDs are uuid.UUID
package model
