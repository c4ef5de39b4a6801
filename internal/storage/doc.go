// Package storage defines the persistence interfaces for the ads bridge.
//
// It provides abstractions for the TTL-aware response cache, the append-only
// API call log, user account access records, and layered configuration.
// Implementations of these interfaces (using SQLite) live in subpackages.
//
// # Error Types
//
// The package defines common error types used across storage implementations:
//   - ErrNotFound: Indicates a requested record is missing.
package storage
