package services

import (
	"context"
	"time"

	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
	"github.com/custodia-labs/meetsync/internal/logger"
)

// Default stabilization timings. Platforms render summaries progressively
// with no completion signal, so these bound the only repeated blocking wait
// in a run.
const (
	DefaultMaxWait      = 60 * time.Second
	DefaultPollInterval = 3 * time.Second
)

// Stabilizer repeatedly samples a meeting's in-progress rendered content
// until it stops changing or a deadline expires. Two consecutive identical
// non-empty samples are the stability signal. On deadline it degrades to
// the longest content observed rather than failing the item.
type Stabilizer struct {
	maxWait      time.Duration
	pollInterval time.Duration
	log          logger.Logger
}

// NewStabilizer creates a stabilizer. Non-positive timings fall back to the
// defaults; a nil logger falls back to a no-op logger.
func NewStabilizer(maxWait, pollInterval time.Duration, log logger.Logger) *Stabilizer {
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Stabilizer{maxWait: maxWait, pollInterval: pollInterval, log: log}
}

// Stabilize polls sample until the content settles or the deadline expires.
// Returns domain.ErrNoContent only when no non-empty sample was ever
// observed; a non-stabilized result carries Stabilized=false so callers can
// tell a best-effort result apart from a settled one.
func (s *Stabilizer) Stabilize(ctx context.Context, sample driven.Sampler) (domain.ExtractedContent, error) {
	deadline := time.Now().Add(s.maxWait)

	var last, best string
	count := 0

	for {
		text, err := sample(ctx)
		count++
		if err != nil {
			// A failed poll is transient; the next poll may succeed.
			s.log.Debug("content sample failed", logger.Int("sample", count), logger.Error(err))
			text = ""
		}

		if text != "" {
			if len(text) > len(best) {
				best = text
			}
			if text == last {
				s.log.Debug("content stabilized",
					logger.Int("samples", count), logger.Int("chars", len(text)))
				return domain.ExtractedContent{Text: text, SampleCount: count, Stabilized: true}, nil
			}
			last = text
		} else {
			last = ""
		}

		if !time.Now().Add(s.pollInterval).Before(deadline) {
			break
		}

		select {
		case <-ctx.Done():
			// No mid-operation cancellation signal beyond deadlines;
			// context expiry degrades the same way the deadline does.
			return s.bestEffort(best, count)
		case <-time.After(s.pollInterval):
		}
	}

	return s.bestEffort(best, count)
}

// bestEffort returns the longest content seen, or ErrNoContent when the
// sampler never produced anything.
func (s *Stabilizer) bestEffort(best string, count int) (domain.ExtractedContent, error) {
	if best == "" {
		return domain.ExtractedContent{SampleCount: count}, domain.ErrNoContent
	}
	s.log.Warn("content did not stabilize, returning best result",
		logger.Int("samples", count), logger.Int("chars", len(best)))
	return domain.ExtractedContent{Text: best, SampleCount: count, Stabilized: false}, nil
}
