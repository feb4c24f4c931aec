package vault

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/meetsync/internal/core/domain"
)

func testNote() domain.Note {
	return domain.Note{
		OccurredAt:   time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC),
		Platform:     "Zoom",
		Title:        "Quarterly Planning",
		Content:      "The team discussed the roadmap.",
		Participants: []string{"Alice", "Bob"},
		Duration:     "42m 10s",
	}
}

func TestWrite_CreatesNote(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	require.NoError(t, err)

	path, err := w.Write(context.Background(), testNote())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "2026-08-20_14-30_Zoom_Quarterly Planning.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, "date: 2026-08-20T14:30:00Z")
	assert.Contains(t, content, "platform: Zoom")
	assert.Contains(t, content, "title: Quarterly Planning")
	assert.Contains(t, content, "- Alice")
	assert.Contains(t, content, "duration: 42m 10s")
	assert.Contains(t, content, "- meeting")
	assert.Contains(t, content, "The team discussed the roadmap.")
}

func TestWrite_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vault", "Meetings")

	_, err := NewWriter(dir, nil)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestWrite_AlwaysTagsMeeting(t *testing.T) {
	w, err := NewWriter(t.TempDir(), nil)
	require.NoError(t, err)

	note := testNote()
	note.Tags = []string{"work", "q3"}

	path, err := w.Write(context.Background(), note)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "- meeting")
	assert.Contains(t, string(raw), "- work")
}

func TestWrite_OverwritesExisting(t *testing.T) {
	w, err := NewWriter(t.TempDir(), nil)
	require.NoError(t, err)

	note := testNote()
	first, err := w.Write(context.Background(), note)
	require.NoError(t, err)

	note.Content = "Updated content after a re-run."
	second, err := w.Write(context.Background(), note)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	raw, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Updated content")
	assert.NotContains(t, string(raw), "roadmap")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"invalid chars", `a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"trims dots and spaces", "  .title. ", "title"},
		{"plain", "Weekly Sync", "Weekly Sync"},
		{"long title capped", strings.Repeat("x", 300), strings.Repeat("x", 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFilename(tt.in))
		})
	}
}

func TestFormatContent(t *testing.T) {
	in := "Line one.\r\nSee https://example.com/doc for details.\n\n\n\nAlready [linked](https://example.com/x).\n"

	got := formatContent(in)

	assert.Contains(t, got, "[https://example.com/doc](https://example.com/doc)")
	assert.Contains(t, got, "[linked](https://example.com/x)")
	assert.NotContains(t, got, "\r\n")
	assert.NotContains(t, got, "\n\n\n")
	assert.NotContains(t, got, "((", "existing links must not be rewrapped")
}

func TestConvertURLs_LeavesLinkedURLAlone(t *testing.T) {
	in := "[https://a.example](https://a.example) and https://b.example"

	got := convertURLs(in)

	assert.Equal(t, "[https://a.example](https://a.example) and [https://b.example](https://b.example)", got)
}
