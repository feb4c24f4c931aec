package pocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/meetsync/internal/core/domain"
)

func newTestAdapter(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := New(domain.Source{
		ID:     "pocket",
		Type:   "pocket",
		Config: map[string]string{"api_key": "test-key", "base_url": srv.URL},
	}, nil)
	require.NoError(t, err)
	return a
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(domain.Source{ID: "pocket", Config: map[string]string{}}, nil)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestDiscover_PaginatedEnvelope(t *testing.T) {
	var gotAuth, gotStartDate string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStartDate = r.URL.Query().Get("start_date")

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		if page == "1" {
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"items": []map[string]any{
						{"id": 101, "title": "Standup", "duration": 130.0,
							"recorded_at": "2026-08-20T10:00:00Z"},
					},
					"total_pages": 2,
					"page":        1,
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"items": []map[string]any{
					{"id": 102, "created_at": "2026-08-21T09:00:00Z"},
				},
				"total_pages": 2,
				"page":        2,
			},
		})
	})

	a := newTestAdapter(t, handler)
	since := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	meetings, err := a.Discover(context.Background(), since)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "2026-08-15", gotStartDate)

	require.Len(t, meetings, 2)
	assert.Equal(t, "101", meetings[0].ExternalID)
	assert.Equal(t, "Standup", meetings[0].Title)
	assert.Equal(t, "2m 10s", meetings[0].Duration)
	assert.Equal(t, domain.OriginAPI, meetings[0].Origin)
	assert.Equal(t, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), meetings[0].OccurredAt.UTC())

	assert.Equal(t, "102", meetings[1].ExternalID)
	assert.Equal(t, "Untitled Recording", meetings[1].Title, "missing title gets a default")
	assert.Equal(t, time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC), meetings[1].OccurredAt.UTC(),
		"created_at is the fallback date")
}

func TestDiscover_BareArrayResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "abc", "title": "Review", "recorded_at": "2026-08-20T10:00:00Z"}]`))
	})

	a := newTestAdapter(t, handler)

	meetings, err := a.Discover(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "abc", meetings[0].ExternalID)
}

func TestDiscover_ServerErrorIsDiscoveryFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	a := newTestAdapter(t, handler)

	_, err := a.Discover(context.Background(), time.Time{})
	assert.ErrorIs(t, err, domain.ErrDiscovery)
}

func TestSampler_UsesSummarizationsFromListing(t *testing.T) {
	detailCalls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/public/recordings" {
			w.Write([]byte(`[{"id": "r1", "title": "Planning",
				"recorded_at": "2026-08-20T10:00:00Z",
				"summarizations": {"v2_summary": {"markdown": "The team discussed everything."}}}]`))
			return
		}
		detailCalls++
		w.Write([]byte(`{}`))
	})

	a := newTestAdapter(t, handler)

	meetings, err := a.Discover(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, meetings, 1)

	sample, err := a.Sampler(context.Background(), meetings[0])
	require.NoError(t, err)

	text, err := sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "## Summary\n\nThe team discussed everything.", text)
	assert.Zero(t, detailCalls, "listing summaries avoid a detail fetch")
}

func TestSampler_FetchesDetailsWhenListingHasNone(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/public/recordings" {
			w.Write([]byte(`[{"id": "r1", "recorded_at": "2026-08-20T10:00:00Z"}]`))
			return
		}
		require.Equal(t, "/public/recordings/r1", r.URL.Path)
		w.Write([]byte(`{"data": {"id": "r1",
			"summarizations": {"brief_summary": "Short recap of decisions."}}}`))
	})

	a := newTestAdapter(t, handler)

	meetings, err := a.Discover(context.Background(), time.Time{})
	require.NoError(t, err)

	sample, err := a.Sampler(context.Background(), meetings[0])
	require.NoError(t, err)

	text, err := sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "## Brief Summary\n\nShort recap of decisions.", text)
}

func TestSampler_ClosedAdapter(t *testing.T) {
	a := newTestAdapter(t, http.NotFoundHandler())
	require.NoError(t, a.Close())

	_, err := a.Sampler(context.Background(), domain.Meeting{ExternalID: "x"})
	assert.ErrorIs(t, err, domain.ErrAdapterClosed)
}

func TestComposeContent_FieldPreference(t *testing.T) {
	summs := map[string]summaryValue{
		"detailed_summary": {Text: "detailed"},
		"v2_summary":       {Text: "preferred"},
	}

	got := composeContent(summs)

	assert.Equal(t, "## Summary\n\npreferred\n\n## Detailed Summary\n\ndetailed", got)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2m 10s", formatDuration(130))
	assert.Equal(t, "0m 45s", formatDuration(45.9))
	assert.Empty(t, formatDuration(0))
}
