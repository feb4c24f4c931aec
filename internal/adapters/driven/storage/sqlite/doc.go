// Package sqlite provides the durable sync-state store backed by SQLite.
//
// The store holds completion records (one per persisted meeting, unique per
// meeting and platform) and per-source watermarks. All timestamps are stored
// as RFC 3339 text so the database stays portable and inspectable.
package sqlite
