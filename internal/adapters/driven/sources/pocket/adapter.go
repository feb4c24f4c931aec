// Package pocket fetches meeting recordings and summaries from the
// Heypocket public REST API.
package pocket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
	"github.com/custodia-labs/meetsync/internal/logger"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://public.heypocketai.com/api/v1"

const (
	pageSize       = 100
	requestTimeout = 30 * time.Second
)

// preferredSummaryFields are tried in order when composing note content.
var preferredSummaryFields = []string{"v2_summary", "summary", "brief_summary", "detailed_summary"}

// Adapter implements driven.SourceAdapter against the Heypocket API.
type Adapter struct {
	sourceID string
	baseURL  string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
	log      logger.Logger

	mu     sync.Mutex
	cached map[string]string // externalID -> composed content from discovery
	closed bool
}

var _ driven.SourceAdapter = (*Adapter)(nil)

// New creates a Heypocket adapter. The source settings must carry "api_key";
// "base_url" overrides the public endpoint, mainly for tests.
func New(source domain.Source, log logger.Logger) (*Adapter, error) {
	apiKey := source.Config["api_key"]
	if apiKey == "" {
		return nil, fmt.Errorf("%w: source %q needs an api_key", domain.ErrConfig, source.ID)
	}
	baseURL := source.Config["base_url"]
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{
		sourceID: source.ID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: requestTimeout},
		// The public API throttles aggressively; stay well under it.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		log:     log,
		cached:  make(map[string]string),
	}, nil
}

// SourceID returns the configured source ID.
func (a *Adapter) SourceID() string { return a.sourceID }

// Close marks the adapter closed.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// Discover lists recordings created at or after since, following pagination.
func (a *Adapter) Discover(ctx context.Context, since time.Time) ([]domain.Meeting, error) {
	var meetings []domain.Meeting

	page := 1
	for {
		list, err := a.fetchPage(ctx, since, page)
		if err != nil {
			return nil, fmt.Errorf("%w: listing recordings page %d: %v", domain.ErrDiscovery, page, err)
		}

		for _, rec := range list.items() {
			m, ok := a.toMeeting(rec)
			if !ok {
				continue
			}
			meetings = append(meetings, m)
		}

		a.log.Debug("fetched recordings page",
			logger.Int("page", page), logger.Int("count", len(list.items())))

		if page >= list.totalPages() {
			break
		}
		page++
	}

	return meetings, nil
}

// Sampler returns a sampler for the recording's summary content. The API
// serves complete summaries, so samples are constant and stabilize on the
// second poll.
func (a *Adapter) Sampler(_ context.Context, m domain.Meeting) (driven.Sampler, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, domain.ErrAdapterClosed
	}
	cached, ok := a.cached[m.ExternalID]
	a.mu.Unlock()

	return func(ctx context.Context) (string, error) {
		if ok && cached != "" {
			return cached, nil
		}
		rec, err := a.fetchDetails(ctx, m.ExternalID)
		if err != nil {
			return "", err
		}
		return composeContent(rec.Summarizations), nil
	}, nil
}

func (a *Adapter) toMeeting(rec recording) (domain.Meeting, bool) {
	id := rec.ID.String()
	if id == "" {
		a.log.Warn("recording missing ID, skipping")
		return domain.Meeting{}, false
	}

	title := rec.Title
	if title == "" {
		title = "Untitled Recording"
	}

	m := domain.Meeting{
		SourceID:   a.sourceID,
		ExternalID: id,
		Title:      title,
		OccurredAt: rec.occurredAt(a.log),
		Origin:     domain.OriginAPI,
		Duration:   formatDuration(rec.Duration),
	}

	if content := composeContent(rec.Summarizations); content != "" {
		a.mu.Lock()
		a.cached[id] = content
		a.mu.Unlock()
	}
	return m, true
}

func (a *Adapter) fetchPage(ctx context.Context, since time.Time, page int) (*listResponse, error) {
	params := url.Values{
		"limit":                  {strconv.Itoa(pageSize)},
		"page":                   {strconv.Itoa(page)},
		"include_summarizations": {"true"},
	}
	if !since.IsZero() {
		params.Set("start_date", since.Format("2006-01-02"))
	}

	var list listResponse
	if err := a.get(ctx, "/public/recordings", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (a *Adapter) fetchDetails(ctx context.Context, id string) (*recording, error) {
	params := url.Values{
		"include_transcript":     {"true"},
		"include_summarizations": {"true"},
	}

	var detail detailResponse
	if err := a.get(ctx, "/public/recordings/"+url.PathEscape(id), params, &detail); err != nil {
		return nil, fmt.Errorf("fetching recording %s: %w", id, err)
	}
	return detail.recording(), nil
}

func (a *Adapter) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// composeContent builds markdown sections from the summarizations object,
// preferring the richest known field and falling back to whatever is there.
func composeContent(summs map[string]summaryValue) string {
	if len(summs) == 0 {
		return ""
	}

	var parts []string
	for _, field := range preferredSummaryFields {
		val, ok := summs[field]
		if !ok || val.Text == "" {
			continue
		}
		parts = append(parts, "## "+sectionTitle(field)+"\n\n"+val.Text)
	}

	if len(parts) == 0 {
		names := make([]string, 0, len(summs))
		for name := range summs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if summs[name].Text == "" {
				continue
			}
			parts = append(parts, "## "+sectionTitle(name)+"\n\n"+summs[name].Text)
		}
	}

	return strings.Join(parts, "\n\n")
}

func sectionTitle(field string) string {
	if field == "v2_summary" {
		return "Summary"
	}
	words := strings.Split(strings.ReplaceAll(field, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// formatDuration renders seconds as "42m 10s", empty when unknown.
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	total := int(seconds)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}
