package drive

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drivev3 "google.golang.org/api/drive/v3"

	"github.com/custodia-labs/meetsync/internal/core/domain"
)

type fakeAPI struct {
	// query fragment -> files returned
	responses map[string][]*drivev3.File
	exports   map[string]string
	listErr   error
	queries   []string
}

func (f *fakeAPI) listFiles(_ context.Context, query, _ string) (*drivev3.FileList, error) {
	f.queries = append(f.queries, query)
	if f.listErr != nil {
		return nil, f.listErr
	}
	for fragment, files := range f.responses {
		if strings.Contains(query, fragment) {
			return &drivev3.FileList{Files: files}, nil
		}
	}
	return &drivev3.FileList{}, nil
}

func (f *fakeAPI) exportHTML(_ context.Context, fileID string) (string, error) {
	markup, ok := f.exports[fileID]
	if !ok {
		return "", errors.New("export failed")
	}
	return markup, nil
}

func newTestAdapter(api api) *Adapter {
	return newWithAPI(domain.Source{ID: "meet", Type: "drive"}, api, nil)
}

func TestDiscover_BothOrigins(t *testing.T) {
	api := &fakeAPI{
		responses: map[string][]*drivev3.File{
			"mimeType = 'application/vnd.google-apps.folder'": {
				{Id: "folder-1", Name: "Meet Recordings"},
			},
			"'folder-1' in parents": {
				{Id: "doc-own", Name: "Weekly sync - 2026/08/20 10:00 EST - Notes by Gemini"},
			},
			"sharedWithMe": {
				{Id: "doc-shared", Name: "Design review - Notes by Gemini",
					CreatedTime: "2026-08-19T15:00:00Z"},
			},
		},
	}
	a := newTestAdapter(api)

	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	meetings, err := a.Discover(context.Background(), since)
	require.NoError(t, err)

	require.Len(t, meetings, 2)

	assert.Equal(t, "doc-own", meetings[0].ExternalID)
	assert.Equal(t, "Weekly sync - 2026/08/20 10:00 EST", meetings[0].Title,
		"Gemini suffix is stripped")
	assert.Equal(t, domain.OriginOwned, meetings[0].Origin)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), meetings[0].OccurredAt)

	assert.Equal(t, "doc-shared", meetings[1].ExternalID)
	assert.Equal(t, domain.OriginShared, meetings[1].Origin)
	assert.Equal(t, time.Date(2026, 8, 19, 15, 0, 0, 0, time.UTC), meetings[1].OccurredAt.UTC(),
		"no title date falls back to file time")

	joined := strings.Join(api.queries, "\n")
	assert.Contains(t, joined, "modifiedTime >= '2026-08-01T00:00:00Z'")
}

func TestDiscover_MissingFolderSkipsOwned(t *testing.T) {
	api := &fakeAPI{
		responses: map[string][]*drivev3.File{
			"sharedWithMe": {
				{Id: "doc-shared", Name: "Retro - Notes by Gemini"},
			},
		},
	}
	a := newTestAdapter(api)

	meetings, err := a.Discover(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, domain.OriginShared, meetings[0].Origin)
}

func TestDiscover_ListFailureIsDiscoveryError(t *testing.T) {
	a := newTestAdapter(&fakeAPI{listErr: errors.New("auth expired")})

	_, err := a.Discover(context.Background(), time.Time{})
	assert.ErrorIs(t, err, domain.ErrDiscovery)
}

func TestSampler_ExportsAndExtracts(t *testing.T) {
	api := &fakeAPI{
		exports: map[string]string{
			"doc-1": `<html><body><p>The team discussed scope.</p><ul><li>Ship it</li></ul></body></html>`,
		},
	}
	a := newTestAdapter(api)

	sample, err := a.Sampler(context.Background(), domain.Meeting{ExternalID: "doc-1"})
	require.NoError(t, err)

	text, err := sample(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "The team discussed scope.")
	assert.Contains(t, text, "- Ship it")
}

func TestSampler_ExportFailure(t *testing.T) {
	a := newTestAdapter(&fakeAPI{exports: map[string]string{}})

	sample, err := a.Sampler(context.Background(), domain.Meeting{ExternalID: "gone"})
	require.NoError(t, err)

	_, err = sample(context.Background())
	assert.Error(t, err)
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), domain.Source{ID: "meet", Config: map[string]string{}}, nil)
	assert.ErrorIs(t, err, domain.ErrConfig)

	_, err = New(context.Background(), domain.Source{ID: "meet",
		Config: map[string]string{"refresh_token": "rt"}}, nil)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestParseTitleDate(t *testing.T) {
	tests := []struct {
		title string
		want  time.Time
		ok    bool
	}{
		{"Standup - 2026/08/20 11:42 EST", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), true},
		{"Planning 2026-08-21", time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), true},
		{"Review Feb 25, 2026", time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC), true},
		{"Review February 5, 2026", time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), true},
		{"1:1 on 02/25/2026", time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC), true},
		{"1:1 on 2/25/26", time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC), true},
		{"No date here", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, ok := parseTitleDate(tt.title)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
