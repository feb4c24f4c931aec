package domain

// Source represents a configured platform source.
// Each source produces meetings via a SourceAdapter built by the factory.
type Source struct {
	// ID is the unique identifier for the source (e.g. "zoom", "pocket").
	// It is also the platform key in the persisted state schema.
	ID string

	// Type identifies the adapter type (e.g. "pocket", "drive", "zoomweb").
	Type string

	// Name is the human-readable platform label used in notes and tags.
	Name string

	// Enabled gates whether sync runs for this source.
	Enabled bool

	// Config contains adapter-specific configuration.
	Config map[string]string
}
