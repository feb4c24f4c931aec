package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
	"github.com/custodia-labs/meetsync/internal/core/ports/driving"
	"github.com/custodia-labs/meetsync/internal/logger"
)

// DefaultWindow bounds discovery for a source that has never synced.
const DefaultWindow = 30 * 24 * time.Hour

// SyncEngine orchestrates one incremental sync pass per source: discover
// since the watermark, dedupe, stabilize and classify each item's content,
// persist accepted notes, and advance the watermark. It implements
// driving.SyncRunner.
//
// The engine exclusively owns state-store mutation and calls the note
// writer at most once per accepted item. Adapters only read from their
// platforms.
type SyncEngine struct {
	sources    map[string]domain.Source
	factory    driven.AdapterFactory
	store      driven.SyncStateStore
	writer     driven.NoteWriter
	stabilizer *Stabilizer
	classifier *Classifier
	log        logger.Logger

	mu     sync.Mutex
	active map[string]*driving.RunStatus
}

// NewSyncEngine creates a sync engine over the configured sources.
func NewSyncEngine(
	sources []domain.Source,
	factory driven.AdapterFactory,
	store driven.SyncStateStore,
	writer driven.NoteWriter,
	stabilizer *Stabilizer,
	classifier *Classifier,
	log logger.Logger,
) *SyncEngine {
	if log == nil {
		log = logger.Nop()
	}
	byID := make(map[string]domain.Source, len(sources))
	for _, s := range sources {
		byID[s.ID] = s
	}
	return &SyncEngine{
		sources:    byID,
		factory:    factory,
		store:      store,
		writer:     writer,
		stabilizer: stabilizer,
		classifier: classifier,
		log:        log,
		active:     make(map[string]*driving.RunStatus),
	}
}

// Run synchronises one source. Discovery failure is logged and returns
// (0, nil) with the watermark untouched; per-item failures skip the item.
// State-store failures abort the run with an error.
func (e *SyncEngine) Run(ctx context.Context, sourceID string, opts driving.RunOptions) (int, error) {
	source, ok := e.sources[sourceID]
	if !ok {
		return 0, fmt.Errorf("source %q: %w", sourceID, domain.ErrNotFound)
	}
	if !source.Enabled {
		return 0, fmt.Errorf("source %q is disabled: %w", sourceID, domain.ErrInvalidInput)
	}

	log := e.log.With(
		logger.String("run_id", uuid.NewString()),
		logger.String("source", sourceID),
	)

	status := e.beginRun(sourceID)
	defer e.endRun(sourceID)

	adapter, err := e.factory.Create(source)
	if err != nil {
		return 0, fmt.Errorf("creating adapter for %q: %w", sourceID, err)
	}
	defer adapter.Close()

	since, err := e.lowerBound(ctx, sourceID, opts.Since, log)
	if err != nil {
		return 0, err
	}

	// Captured before discovery so items arriving mid-run land after the
	// next watermark and are picked up by the following run.
	runStart := time.Now().UTC()

	log.Info("starting discovery",
		logger.Time("since", since), logger.Bool("dry_run", opts.DryRun))

	items, err := adapter.Discover(ctx, since)
	if err != nil {
		// Nothing was enumerated, so the window is not covered. Leaving
		// the watermark alone makes the next run retry the same window.
		log.Error("discovery failed, watermark untouched", logger.Error(err))
		return 0, nil
	}

	unique := Dedupe(items)
	if dropped := len(items) - len(unique); dropped > 0 {
		log.Debug("dropped duplicate discoveries", logger.Int("count", dropped))
	}
	e.setDiscovered(status, len(unique))
	log.Info("discovered meetings", logger.Int("count", len(unique)))

	persisted := 0
	for _, m := range unique {
		ok, err := e.processMeeting(ctx, adapter, source, m, opts.DryRun, log)
		if err != nil {
			return persisted, err
		}
		if ok {
			persisted++
			e.bumpPersisted(status)
		} else {
			e.bumpSkipped(status)
		}
	}

	if !opts.DryRun && len(items) > 0 {
		if err := e.store.SetWatermark(ctx, sourceID, runStart); err != nil {
			return persisted, fmt.Errorf("advancing watermark for %q: %w", sourceID, err)
		}
		log.Debug("watermark advanced", logger.Time("watermark", runStart))
	}

	log.Info("sync complete",
		logger.Int("persisted", persisted),
		logger.Int("skipped", len(unique)-persisted))
	return persisted, nil
}

// Status returns the status of a source's current or last run.
func (e *SyncEngine) Status(ctx context.Context, sourceID string) (*driving.RunStatus, error) {
	if _, ok := e.sources[sourceID]; !ok {
		return nil, fmt.Errorf("source %q: %w", sourceID, domain.ErrNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.active[sourceID]; ok {
		cp := *st
		return &cp, nil
	}
	return &driving.RunStatus{SourceID: sourceID}, nil
}

// lowerBound merges the stored watermark with an explicit override.
// When both exist, the earlier of the two wins so nothing already pending
// is missed; a stored watermark older than the requested bound is logged
// because it silently widens the window. A source that has never synced
// and got no override gets a default window ending now.
func (e *SyncEngine) lowerBound(ctx context.Context, sourceID string, explicit *time.Time, log logger.Logger) (time.Time, error) {
	stored, err := e.store.Watermark(ctx, sourceID)
	switch {
	case err == nil:
		if explicit == nil {
			return stored, nil
		}
		if stored.Before(*explicit) {
			log.Warn("stored watermark predates the requested bound, widening the window",
				logger.Time("watermark", stored), logger.Time("requested", *explicit))
			return stored, nil
		}
		return *explicit, nil
	case errors.Is(err, domain.ErrNotFound):
		if explicit != nil {
			return *explicit, nil
		}
		since := time.Now().UTC().Add(-DefaultWindow)
		log.Debug("no watermark, using default window", logger.Time("since", since))
		return since, nil
	default:
		return time.Time{}, fmt.Errorf("reading watermark for %q: %w", sourceID, err)
	}
}

// processMeeting takes one discovered meeting through completion check,
// stabilization, classification, and persistence. It reports whether the
// meeting was persisted (or would have been, in a dry run). Per-item fetch
// and write failures skip the item; state-store failures propagate.
func (e *SyncEngine) processMeeting(
	ctx context.Context,
	adapter driven.SourceAdapter,
	source domain.Source,
	m domain.Meeting,
	dryRun bool,
	log logger.Logger,
) (bool, error) {
	log = log.With(
		logger.String("meeting_id", m.ExternalID),
		logger.String("title", m.Title),
	)

	done, err := e.store.IsCompleted(ctx, m.SourceID, m.ExternalID)
	if err != nil {
		return false, fmt.Errorf("checking completion of %s/%s: %w", m.SourceID, m.ExternalID, err)
	}
	if done {
		log.Debug("already synced, skipping")
		return false, nil
	}

	sample, err := adapter.Sampler(ctx, m)
	if err != nil {
		log.Warn("could not open meeting content, skipping", logger.Error(err))
		return false, nil
	}

	content, err := e.stabilizer.Stabilize(ctx, sample)
	if err != nil {
		if errors.Is(err, domain.ErrNoContent) {
			log.Info("no content rendered before deadline, skipping",
				logger.Int("samples", content.SampleCount))
			return false, nil
		}
		log.Warn("content extraction failed, skipping", logger.Error(err))
		return false, nil
	}

	verdict := e.classifier.Classify(content.Text)
	artifact := domain.Artifact{
		Meeting:  m,
		Content:  content.Text,
		Accepted: verdict.Accepted,
		Reason:   verdict.Reason,
	}
	if !artifact.Accepted {
		log.Info("content rejected, skipping", logger.String("reason", artifact.Reason))
		return false, nil
	}

	if dryRun {
		log.Info("would persist meeting (dry run)")
		return true, nil
	}

	note := domain.Note{
		OccurredAt:   artifact.Meeting.OccurredAt,
		Platform:     source.Name,
		Title:        artifact.Meeting.Title,
		Content:      artifact.Content,
		Participants: artifact.Meeting.Participants,
		Duration:     artifact.Meeting.Duration,
	}
	path, err := e.writer.Write(ctx, note)
	if err != nil {
		log.Warn("writing note failed, skipping", logger.Error(err))
		return false, nil
	}

	rec := domain.SyncRecord{
		SourceID:   m.SourceID,
		ExternalID: m.ExternalID,
		FilePath:   path,
		Title:      m.Title,
		OccurredAt: m.OccurredAt,
		RecordedAt: time.Now().UTC(),
	}
	if err := e.store.Record(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrAlreadyRecorded) {
			// A parallel run beat us to it. The note exists either way,
			// but it is not a new persistence.
			log.Debug("completion record already present")
			return false, nil
		}
		return false, fmt.Errorf("recording completion of %s/%s: %w", m.SourceID, m.ExternalID, err)
	}

	log.Info("meeting persisted", logger.String("path", path))
	return true, nil
}

func (e *SyncEngine) beginRun(sourceID string) *driving.RunStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := &driving.RunStatus{SourceID: sourceID, Running: true}
	e.active[sourceID] = st
	return st
}

func (e *SyncEngine) endRun(sourceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.active[sourceID]; ok {
		st.Running = false
	}
}

func (e *SyncEngine) setDiscovered(st *driving.RunStatus, n int) {
	e.mu.Lock()
	st.Discovered = n
	e.mu.Unlock()
}

func (e *SyncEngine) bumpPersisted(st *driving.RunStatus) {
	e.mu.Lock()
	st.Persisted++
	e.mu.Unlock()
}

func (e *SyncEngine) bumpSkipped(st *driving.RunStatus) {
	e.mu.Lock()
	st.Skipped++
	e.mu.Unlock()
}
