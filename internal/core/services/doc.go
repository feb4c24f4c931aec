// Package services implements the core sync logic behind the driving ports.
//
// The SyncEngine orchestrates one source per run: discover candidates since
// the watermark, deduplicate, stabilize and classify each item's content,
// persist accepted artifacts, and advance the watermark. The Stabilizer,
// Classifier, and Dedupe helpers are deterministic and independently
// testable; all I/O goes through the driven ports.
package services
