package domain

import "time"

// DiscoveryOrigin identifies the channel through which a meeting was found.
// The same remote item may surface through several origins; identity is
// always (SourceID, ExternalID) and dedup keeps the first-seen origin.
type DiscoveryOrigin string

const (
	// OriginOwned is an item enumerated from the user's own listing
	// (e.g. a "Meet Recordings" folder or the account's recordings page).
	OriginOwned DiscoveryOrigin = "owned"

	// OriginShared is an item found through a shared-items search.
	OriginShared DiscoveryOrigin = "shared"

	// OriginAPI is an item returned directly by a platform API.
	OriginAPI DiscoveryOrigin = "api"
)

// Meeting is a candidate item produced by adapter discovery.
// It is immutable once produced: the engine never mutates a Meeting,
// it only decides whether to persist its content.
type Meeting struct {
	// SourceID identifies the configured source that discovered this meeting.
	SourceID string

	// ExternalID is the platform's identifier for the meeting.
	// (SourceID, ExternalID) is the meeting's identity.
	ExternalID string

	// Title is the meeting title as discovered, already cleaned of
	// platform decoration by the adapter.
	Title string

	// OccurredAt is when the meeting took place.
	OccurredAt time.Time

	// Origin is the discovery channel, used only for dedup tie-breaking.
	Origin DiscoveryOrigin

	// Participants is the attendee list when the platform provides one.
	Participants []string

	// Duration is a human-readable duration ("42m 10s"), empty if unknown.
	Duration string
}

// ExtractedContent is the result of sampling a meeting's rendered content.
// It is owned transiently by the stabilization step and never persisted.
type ExtractedContent struct {
	// Text is the best content observed.
	Text string

	// SampleCount is how many polls were taken before returning.
	SampleCount int

	// Stabilized reports whether two consecutive samples matched.
	// False means Text is a best-effort result returned at the deadline.
	Stabilized bool
}

// Verdict is the classifier's judgement on a piece of extracted text.
type Verdict struct {
	// Accepted is true when the text looks like genuine summary content.
	Accepted bool

	// Reason explains a rejection. Empty when accepted.
	Reason string
}

// Artifact pairs a meeting with its classified content.
// It is produced by classification and consumed exactly once by persistence.
type Artifact struct {
	Meeting  Meeting
	Content  string
	Accepted bool
	Reason   string
}
