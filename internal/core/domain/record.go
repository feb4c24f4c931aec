package domain

import "time"

// SyncRecord is the durable completion record for one persisted meeting.
// At most one record exists per (SourceID, ExternalID); the state store
// enforces this as a uniqueness constraint. Records are created on
// successful persistence and never updated or deleted by the engine.
type SyncRecord struct {
	// SourceID identifies the source the meeting came from.
	SourceID string

	// ExternalID is the platform's meeting identifier.
	ExternalID string

	// FilePath is where the vault writer persisted the note.
	FilePath string

	// Title is the meeting title at persistence time.
	Title string

	// OccurredAt is when the meeting took place.
	OccurredAt time.Time

	// RecordedAt is when the record was written.
	RecordedAt time.Time
}

// Note is what the vault writer persists for an accepted artifact.
type Note struct {
	// OccurredAt is the meeting date used for the filename and frontmatter.
	OccurredAt time.Time

	// Platform is the human-facing source label (e.g. "Zoom").
	Platform string

	// Title is the meeting title.
	Title string

	// Content is the markdown body.
	Content string

	// Participants is the optional attendee list.
	Participants []string

	// Duration is the optional human-readable duration.
	Duration string

	// Tags are frontmatter tags; the writer guarantees "meeting" is present.
	Tags []string
}
