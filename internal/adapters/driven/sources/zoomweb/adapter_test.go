package zoomweb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/meetsync/internal/core/domain"
)

const listPage = `<html><body><table><tbody class="zm-table__body">
<tr class="zm-table__row normal-row">
  <td><a href="/user/meeting/summary/abc123">open</a></td>
  <td class="col"><button class="topic-link" aria-label="Quarterly Planning">Quarterly…</button></td>
  <td><div class="cell">812 4411 0923</div></td>
  <td><div class="cell">Alice Host</div></td>
  <td><div class="cell">Aug 20, 2026 10:00 AM</div></td>
</tr>
<tr class="zm-table__row normal-row">
  <td></td>
  <td class="col"><button class="topic-link">Old Retro</button></td>
  <td><div class="cell">100 2000 3000</div></td>
  <td><div class="cell">Bob</div></td>
  <td><div class="cell">Jul 1, 2026 9:00 AM</div></td>
</tr>
</tbody></table></body></html>`

func newTestAdapter(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := New(domain.Source{
		ID:   "zoom",
		Type: "zoomweb",
		Config: map[string]string{
			"session_cookie": "_zm_ssid=test",
			"base_url":       srv.URL,
		},
	}, nil)
	require.NoError(t, err)
	return a
}

func TestNew_RequiresSessionCookie(t *testing.T) {
	_, err := New(domain.Source{ID: "zoom", Config: map[string]string{}}, nil)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestDiscover_ParsesRowsAndFiltersWindow(t *testing.T) {
	var gotCookie string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		fmt.Fprint(w, listPage)
	})
	a := newTestAdapter(t, handler)

	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	meetings, err := a.Discover(context.Background(), since)
	require.NoError(t, err)

	assert.Equal(t, "_zm_ssid=test", gotCookie)

	require.Len(t, meetings, 1, "the July row is before the window")
	m := meetings[0]
	assert.Equal(t, "zoom_81244110923", m.ExternalID)
	assert.Equal(t, "Quarterly Planning", m.Title, "aria-label wins over button text")
	assert.Equal(t, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), m.OccurredAt)
	assert.Equal(t, []string{"Alice Host"}, m.Participants)
	assert.Equal(t, domain.OriginOwned, m.Origin)
}

func TestDiscover_PortalErrorIsDiscoveryFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "signin required", http.StatusFound)
	})
	a := newTestAdapter(t, handler)

	_, err := a.Discover(context.Background(), time.Time{})
	assert.ErrorIs(t, err, domain.ErrDiscovery)
}

func TestSampler_ProgressiveRendering(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/meeting/summary" {
			fmt.Fprint(w, listPage)
			return
		}
		require.Equal(t, "/user/meeting/summary/abc123", r.URL.Path)
		calls++
		if calls == 1 {
			fmt.Fprint(w, `<html><body><div class="summary-web-detail"></div></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body><div class="summary-web-detail">
			<p>Meeting Summary for Quarterly Planning</p>
			<p>The team discussed the roadmap and agreed on three priorities for next quarter.</p>
		</div></body></html>`)
	})
	a := newTestAdapter(t, handler)

	meetings, err := a.Discover(context.Background(), time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, meetings)

	sample, err := a.Sampler(context.Background(), meetings[0])
	require.NoError(t, err)

	first, err := sample(context.Background())
	require.NoError(t, err)
	assert.Empty(t, first, "summary not rendered yet")

	second, err := sample(context.Background())
	require.NoError(t, err)
	assert.Contains(t, second, "The team discussed the roadmap")
	assert.NotContains(t, second, "Meeting Summary for", "marker line is stripped")
}

func TestSampler_ClosedAdapter(t *testing.T) {
	a := newTestAdapter(t, http.NotFoundHandler())
	require.NoError(t, a.Close())

	_, err := a.Sampler(context.Background(), domain.Meeting{ExternalID: "x"})
	assert.ErrorIs(t, err, domain.ErrAdapterClosed)
}

func TestParseDateText(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"Jan 25, 2026 2:30 PM", time.Date(2026, 1, 25, 14, 30, 0, 0, time.UTC), true},
		{"01/25/2026 2:30 PM", time.Date(2026, 1, 25, 14, 30, 0, 0, time.UTC), true},
		{"2026-01-25 14:30", time.Date(2026, 1, 25, 14, 30, 0, 0, time.UTC), true},
		{"Jan 25, 2026", time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC), true},
		{"Recorded Jan 25, 2026 by Alice", time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDateText(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCleanSummaryText(t *testing.T) {
	raw := `My Summaries
Share
Meeting ID: 812 4411 0923
Host: Alice
Meeting Summary for Quarterly Planning
The team discussed the rollout sequencing and agreed on owners.
Next steps were assigned to the platform group with a Friday deadline.`

	got := cleanSummaryText(raw)

	assert.NotContains(t, got, "My Summaries")
	assert.NotContains(t, got, "Meeting ID")
	assert.NotContains(t, got, "Host:")
	assert.Contains(t, got, "rollout sequencing")
	assert.Contains(t, got, "Friday deadline")
}

func TestCleanSummaryText_KeepsOriginalWhenOvereager(t *testing.T) {
	raw := "Short but real." // cleaning would drop everything
	assert.Equal(t, raw, cleanSummaryText(raw))
}
