package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/meetsync/internal/core/domain"
)

// Sampler yields the currently-rendered text for one meeting. The text may
// be empty or partial while the remote source is still rendering; the
// stabilizer polls the sampler until consecutive samples match. A sampler
// error is a fetch failure for that poll, not for the whole item.
type Sampler func(ctx context.Context) (string, error)

// SourceAdapter fetches meetings from one platform.
// Each adapter type (pocket, drive, zoomweb) implements this interface.
//
// An adapter owns an exclusive session resource (API client, authenticated
// browser session) for the duration of a run and must not be shared across
// concurrently running engines.
type SourceAdapter interface {
	// SourceID returns the configured source ID.
	SourceID() string

	// Discover enumerates candidate meetings occurring at or after since.
	// The result may contain duplicates across discovery origins; the
	// engine deduplicates before any per-item work. A non-nil error means
	// discovery itself failed (auth, navigation) and the engine must not
	// treat the run's window as covered.
	Discover(ctx context.Context, since time.Time) ([]domain.Meeting, error)

	// Sampler returns the content-sampling capability for one meeting.
	// An error here is a per-item fetch failure; other items continue.
	Sampler(ctx context.Context, m domain.Meeting) (Sampler, error)

	// Close releases the adapter's session resource.
	Close() error
}

// AdapterBuilder constructs an adapter for a configured source.
type AdapterBuilder func(source domain.Source) (SourceAdapter, error)

// AdapterFactory creates adapters from source configuration.
type AdapterFactory interface {
	// Create builds an adapter for the source.
	// Returns domain.ErrUnsupportedType for unknown source types.
	Create(source domain.Source) (SourceAdapter, error)

	// Register adds a builder for a source type.
	Register(sourceType string, builder AdapterBuilder)

	// SupportedTypes lists registered source types.
	SupportedTypes() []string
}
