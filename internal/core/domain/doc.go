// Package domain defines the core business entities for meetsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Meeting: a candidate item discovered on a platform
//   - ExtractedContent: sampled text from a progressively rendered summary
//   - Artifact: a meeting plus classified content, ready to persist
//   - SyncRecord: the durable per-item completion record
//   - Note: what the vault writer persists
//   - Source: a configured platform source
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
