// Package vault writes accepted meeting notes into the notes vault as
// markdown files with YAML frontmatter.
package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
	"github.com/custodia-labs/meetsync/internal/logger"
)

// maxFilenameLen caps the sanitized title portion of a filename.
const maxFilenameLen = 200

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	bareURL              = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
	excessBlankLines     = regexp.MustCompile(`\n{3,}`)
)

// Writer implements driven.NoteWriter on a vault directory.
type Writer struct {
	dir string
	log logger.Logger
}

var _ driven.NoteWriter = (*Writer)(nil)

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string, log logger.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating vault directory: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Writer{dir: dir, log: log}, nil
}

// Write persists the note and returns its path. An existing file for the
// same meeting is overwritten; completion records, not the filesystem, are
// the idempotence guarantee.
func (w *Writer) Write(_ context.Context, note domain.Note) (string, error) {
	front, err := frontmatter(note)
	if err != nil {
		return "", err
	}
	body := formatContent(note.Content)

	path := filepath.Join(w.dir, filename(note))
	if err := os.WriteFile(path, []byte(front+body+"\n"), 0644); err != nil {
		return "", fmt.Errorf("writing note: %w", err)
	}

	w.log.Debug("note written", logger.String("path", path))
	return path, nil
}

// filename builds "YYYY-MM-DD_HH-MM_Platform_title.md".
func filename(note domain.Note) string {
	return fmt.Sprintf("%s_%s_%s.md",
		note.OccurredAt.Format("2006-01-02_15-04"),
		sanitizeFilename(note.Platform),
		sanitizeFilename(note.Title))
}

// sanitizeFilename replaces characters invalid on common filesystems,
// trims leading and trailing dots and spaces, and caps the length.
func sanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, ". ")
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	return name
}

// noteMeta is the frontmatter layout. Field order is the emission order.
type noteMeta struct {
	Date         string   `yaml:"date,omitempty"`
	Platform     string   `yaml:"platform"`
	Title        string   `yaml:"title,omitempty"`
	Participants []string `yaml:"participants,omitempty"`
	Duration     string   `yaml:"duration,omitempty"`
	Tags         []string `yaml:"tags"`
}

func frontmatter(note domain.Note) (string, error) {
	meta := noteMeta{
		Platform:     note.Platform,
		Title:        note.Title,
		Participants: note.Participants,
		Duration:     note.Duration,
		Tags:         note.Tags,
	}
	if !note.OccurredAt.IsZero() {
		meta.Date = note.OccurredAt.Format(time.RFC3339)
	}
	if !containsTag(meta.Tags, "meeting") {
		meta.Tags = append(meta.Tags, "meeting")
	}

	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshalling frontmatter: %w", err)
	}
	return "---\n" + string(raw) + "---\n\n", nil
}

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// formatContent normalizes line endings, collapses runs of blank lines,
// and turns bare URLs into markdown links.
func formatContent(content string) string {
	out := convertURLs(content)
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = excessBlankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// convertURLs wraps bare URLs as markdown links, leaving URLs that are
// already part of a markdown link alone.
func convertURLs(text string) string {
	locs := bareURL.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		b.WriteString(text[prev:start])

		url := text[start:end]
		if alreadyLinked(text, start) {
			b.WriteString(url)
		} else {
			b.WriteString("[" + url + "](" + url + ")")
		}
		prev = end
	}
	b.WriteString(text[prev:])
	return b.String()
}

func alreadyLinked(text string, start int) bool {
	if start > 0 && text[start-1] == '[' {
		return true
	}
	return start > 1 && text[start-2:start] == "]("
}
