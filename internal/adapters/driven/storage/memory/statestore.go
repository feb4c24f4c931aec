// Package memory provides in-memory driven adapters, used by tests and
// dry-run tooling where durable state is unwanted.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
)

type recordKey struct {
	sourceID   string
	externalID string
}

// SyncStateStore is an in-memory implementation of driven.SyncStateStore.
// Safe for concurrent use.
type SyncStateStore struct {
	mu         sync.RWMutex
	records    map[recordKey]domain.SyncRecord
	watermarks map[string]time.Time
}

var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// NewSyncStateStore creates an empty in-memory store.
func NewSyncStateStore() *SyncStateStore {
	return &SyncStateStore{
		records:    make(map[recordKey]domain.SyncRecord),
		watermarks: make(map[string]time.Time),
	}
}

// IsCompleted reports whether a completion record exists for the pair.
func (s *SyncStateStore) IsCompleted(_ context.Context, sourceID, externalID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[recordKey{sourceID, externalID}]
	return ok, nil
}

// Record writes a completion record, enforcing the same uniqueness the
// SQLite store gets from its constraint.
func (s *SyncStateStore) Record(_ context.Context, rec domain.SyncRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := recordKey{rec.SourceID, rec.ExternalID}
	if _, ok := s.records[k]; ok {
		return domain.ErrAlreadyRecorded
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	s.records[k] = rec
	return nil
}

// Watermark returns the source's last sync timestamp.
func (s *SyncStateStore) Watermark(_ context.Context, sourceID string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.watermarks[sourceID]
	if !ok {
		return time.Time{}, domain.ErrNotFound
	}
	return ts, nil
}

// SetWatermark unconditionally overwrites the source's watermark.
func (s *SyncStateStore) SetWatermark(_ context.Context, sourceID string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watermarks[sourceID] = ts
	return nil
}

// Completed lists completion records for a source, most recent first.
func (s *SyncStateStore) Completed(_ context.Context, sourceID string, limit int) ([]domain.SyncRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.SyncRecord
	for _, rec := range s.records {
		if sourceID == "" || rec.SourceID == sourceID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordedAt.After(records[j].RecordedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
