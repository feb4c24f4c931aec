// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceAdapter: discovers meetings and supplies content samplers
//   - AdapterFactory: creates adapters from source configuration
//   - SyncStateStore: watermark and completion-record persistence
//   - NoteWriter: persists an accepted artifact as a vault note
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
