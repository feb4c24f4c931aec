// Package zoomweb fetches AI meeting summaries from the Zoom web portal.
//
// Zoom exposes no public API for AI Companion summaries, so the adapter
// drives the portal's web pages over an authenticated session cookie. Page
// structure shifts between Zoom releases; parsing uses ranked selector
// strategies, trying the most specific known markup first.
package zoomweb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
	"github.com/custodia-labs/meetsync/internal/logger"
)

// DefaultBaseURL is the Zoom portal root.
const DefaultBaseURL = "https://zoom.us"

const (
	summariesPath  = "/user/meeting/summary"
	requestTimeout = 60 * time.Second
)

// Adapter implements driven.SourceAdapter over the Zoom web portal.
type Adapter struct {
	sourceID string
	baseURL  string
	cookie   string
	client   *http.Client
	limiter  *rate.Limiter
	log      logger.Logger

	mu        sync.Mutex
	detailURL map[string]string // externalID -> detail page URL
	closed    bool
}

var _ driven.SourceAdapter = (*Adapter)(nil)

// New creates a Zoom adapter. The source settings must carry
// "session_cookie", the portal session taken from a logged-in browser;
// "base_url" overrides the portal root, mainly for tests.
func New(source domain.Source, log logger.Logger) (*Adapter, error) {
	cookie := source.Config["session_cookie"]
	if cookie == "" {
		return nil, fmt.Errorf("%w: source %q needs a session_cookie", domain.ErrConfig, source.ID)
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
		cookie:   cookie,
		client:   &http.Client{Timeout: requestTimeout},
		// The portal is not an API; poll it gently.
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		log:       log,
		detailURL: make(map[string]string),
	}, nil
}

// SourceID returns the configured source ID.
func (a *Adapter) SourceID() string { return a.sourceID }

// Close invalidates the session for further sampler calls.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// Discover fetches the summaries list page and extracts rows occurring at
// or after since. A fetch or parse failure is a discovery failure: the
// portal list is all-or-nothing.
func (a *Adapter) Discover(ctx context.Context, since time.Time) ([]domain.Meeting, error) {
	doc, err := a.fetchDoc(ctx, a.baseURL+summariesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching summaries page: %v", domain.ErrDiscovery, err)
	}

	rows := parseRows(doc)
	if len(rows) == 0 {
		a.log.Debug("no summary rows found on portal page")
	}

	var meetings []domain.Meeting
	for _, row := range rows {
		if !since.IsZero() && row.occurredAt.Before(since) {
			continue
		}

		externalID := row.externalID()
		if detail := row.detailHref; detail != "" {
			a.mu.Lock()
			a.detailURL[externalID] = a.absoluteURL(detail)
			a.mu.Unlock()
		}

		var participants []string
		if row.host != "" {
			participants = append(participants, row.host)
		}

		meetings = append(meetings, domain.Meeting{
			SourceID:     a.sourceID,
			ExternalID:   externalID,
			Title:        row.title,
			OccurredAt:   row.occurredAt,
			Origin:       domain.OriginOwned,
			Participants: participants,
		})
	}

	a.log.Debug("parsed summary rows",
		logger.Int("rows", len(rows)), logger.Int("in_window", len(meetings)))
	return meetings, nil
}

// Sampler polls the meeting's detail page. Zoom renders summaries
// progressively, so consecutive samples grow until the document settles;
// the stabilizer owns the settle decision.
func (a *Adapter) Sampler(_ context.Context, m domain.Meeting) (driven.Sampler, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, domain.ErrAdapterClosed
	}
	url, ok := a.detailURL[m.ExternalID]
	a.mu.Unlock()

	if !ok {
		url = a.baseURL + summariesPath + "/" + m.ExternalID
	}

	return func(ctx context.Context) (string, error) {
		doc, err := a.fetchDoc(ctx, url)
		if err != nil {
			return "", err
		}
		return extractSummary(doc), nil
	}, nil
}

func (a *Adapter) fetchDoc(ctx context.Context, url string) (*goquery.Document, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", a.cookie)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return doc, nil
}

func (a *Adapter) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return a.baseURL + href
}
