package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/meetsync/internal/core/domain"
)

// SyncStateStore persists per-item completion records and per-source
// watermarks. The engine exclusively owns all mutation; adapters never
// touch the store.
type SyncStateStore interface {
	// IsCompleted reports whether a completion record exists for the pair.
	IsCompleted(ctx context.Context, sourceID, externalID string) (bool, error)

	// Record writes a completion record. Returns domain.ErrAlreadyRecorded
	// when a record for (SourceID, ExternalID) already exists; callers
	// treat that as a benign idempotence signal.
	Record(ctx context.Context, rec domain.SyncRecord) error

	// Watermark returns the source's last sync timestamp.
	// Returns domain.ErrNotFound when the source has never synced.
	Watermark(ctx context.Context, sourceID string) (time.Time, error)

	// SetWatermark unconditionally overwrites the source's watermark.
	// The decision to call it, and with what value, lives in the engine.
	SetWatermark(ctx context.Context, sourceID string, ts time.Time) error

	// Completed lists completion records for a source, most recent first.
	// A limit of 0 means no limit. An empty sourceID lists all sources.
	Completed(ctx context.Context, sourceID string, limit int) ([]domain.SyncRecord, error)
}
