// Package driving defines the interfaces through which the outside world
// drives the core (the "primary" ports in hexagonal architecture).
package driving

import (
	"context"
	"time"
)

// RunOptions control one sync run for a source.
type RunOptions struct {
	// Since is an explicit lower bound for discovery. When both Since and
	// a stored watermark exist, the engine uses the EARLIER of the two so
	// nothing already pending is missed.
	Since *time.Time

	// DryRun counts what would be persisted without writing notes,
	// completion records, or the watermark.
	DryRun bool
}

// SyncRunner runs incremental synchronisation for configured sources.
type SyncRunner interface {
	// Run synchronises one source and returns the number of meetings
	// persisted (or, in a dry run, the number that would have been).
	// Discovery failure is not an error: the run returns 0 with the
	// watermark untouched. Only unexpected failures (state store,
	// configuration) are returned as errors.
	Run(ctx context.Context, sourceID string, opts RunOptions) (int, error)

	// Status returns the status of a source's current or last run.
	Status(ctx context.Context, sourceID string) (*RunStatus, error)
}

// RunStatus describes a sync run in progress.
type RunStatus struct {
	// SourceID identifies the source.
	SourceID string

	// Running indicates a run is currently in progress.
	Running bool

	// Discovered is the number of unique meetings found so far.
	Discovered int

	// Persisted is the number of meetings persisted so far.
	Persisted int

	// Skipped counts duplicates, rejections, and already-completed items.
	Skipped int
}
