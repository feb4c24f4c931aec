package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/meetsync/internal/core/domain"
)

// Classification thresholds.
const (
	// placeholderMaxLen is the length below which a known placeholder
	// phrase means "not rendered yet" rather than real content that
	// happens to quote the phrase.
	placeholderMaxLen = 200

	// minContentLen is the minimum whitespace-normalized length of
	// acceptable content.
	minContentLen = 50
)

// placeholderPhrases are transient platform messages shown before a real
// summary renders. Matched case-insensitively.
var placeholderPhrases = []string{
	"summary was not generated",
	"insufficient transcript",
	"no summary is available",
	"summary is being generated",
	"processing your summary",
	"summary will be available",
}

// Line patterns for the metadata-vs-content score.
var (
	pureIDLine   = regexp.MustCompile(`^ID:\s*[\d\s]+$`)
	dateLine     = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
	timeLine     = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}\s*(AM|PM)?`)
	labelLine    = regexp.MustCompile(`(?i)^(Topic|Host|Duration|Meeting ID):`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// contentKeywords mark lines that talk about the meeting itself.
var contentKeywords = []string{
	"discussed", "meeting", "action items", "summary",
	"participants", "decided", "agreed",
}

// Classifier decides whether extracted text is a genuine meeting summary or
// placeholder/metadata noise. It is deterministic and side-effect-free.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify scores text and returns an accept/reject verdict.
//
// Stage 1 rejects short texts containing a known placeholder phrase.
// Stage 2 scores each non-empty line as a metadata indicator (identifier,
// date, time, label, or short unpunctuated line) or a content indicator
// (long sentence or domain keyword) and rejects when metadata wins, or when
// the normalized text is shorter than minContentLen.
func (c *Classifier) Classify(text string) domain.Verdict {
	lower := strings.ToLower(text)
	if len(text) < placeholderMaxLen {
		for _, phrase := range placeholderPhrases {
			if strings.Contains(lower, phrase) {
				return domain.Verdict{Reason: fmt.Sprintf("placeholder text: %q", phrase)}
			}
		}
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return domain.Verdict{Reason: "empty content"}
	}

	var metadata, content float64
	for _, line := range lines {
		switch {
		case pureIDLine.MatchString(line):
			// Pure identifier lines count double.
			metadata += 2
		case dateLine.MatchString(line):
			metadata++
		case timeLine.MatchString(line):
			metadata++
		case labelLine.MatchString(line):
			metadata++
		case len(line) < 20 && !strings.ContainsAny(line, ".?!"):
			metadata += 0.5
		case strings.Contains(line, ".") && len(line) > 50:
			content++
		case containsKeyword(line):
			content++
		}
	}

	if metadata > content {
		return domain.Verdict{Reason: fmt.Sprintf(
			"looks like metadata (metadata=%.1f, content=%.1f)", metadata, content)}
	}

	if normalized := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " "); len(normalized) < minContentLen {
		return domain.Verdict{Reason: fmt.Sprintf("content too short (%d chars)", len(normalized))}
	}

	return domain.Verdict{Accepted: true}
}

func containsKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range contentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
