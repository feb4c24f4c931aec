// Package drive discovers Gemini-generated meeting notes in Google Drive.
//
// Notes are found through two origins: the user's own "Meet Recordings"
// folder, and documents shared with the user whose names carry the
// "Notes by Gemini" suffix. The same document can surface through both;
// the engine deduplicates on the file ID.
package drive

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/meetsync/internal/adapters/driven/htmltext"
	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
	"github.com/custodia-labs/meetsync/internal/logger"
)

const (
	mimeTypeDoc    = "application/vnd.google-apps.document"
	mimeTypeFolder = "application/vnd.google-apps.folder"

	exportMimeHTML = "text/html"

	// maxExportSize caps exported document content (5MB).
	maxExportSize = 5 * 1024 * 1024

	defaultRecordingsFolder = "Meet Recordings"
)

var geminiSuffix = regexp.MustCompile(`(?i)\s*-\s*Notes by Gemini\s*$`)

// api is the slice of the Drive API the adapter uses. Wrapping the real
// client behind it keeps discovery and export testable.
type api interface {
	listFiles(ctx context.Context, query, pageToken string) (*drivev3.FileList, error)
	exportHTML(ctx context.Context, fileID string) (string, error)
}

// Adapter implements driven.SourceAdapter over the Drive API.
type Adapter struct {
	sourceID string
	folder   string
	api      api
	limiter  *rate.Limiter
	log      logger.Logger
}

var _ driven.SourceAdapter = (*Adapter)(nil)

// New creates a Drive adapter. The source settings must carry OAuth
// credentials: either "access_token", or "refresh_token" with "client_id"
// and "client_secret". "folder" overrides the recordings folder name.
func New(ctx context.Context, source domain.Source, log logger.Logger) (*Adapter, error) {
	ts, err := tokenSource(ctx, source)
	if err != nil {
		return nil, err
	}

	svc, err := drivev3.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return newWithAPI(source, &driveAPI{svc: svc}, log), nil
}

func newWithAPI(source domain.Source, api api, log logger.Logger) *Adapter {
	folder := source.Config["folder"]
	if folder == "" {
		folder = defaultRecordingsFolder
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{
		sourceID: source.ID,
		folder:   folder,
		api:      api,
		// Drive allows 10 requests/sec/user; stay under it.
		limiter: rate.NewLimiter(rate.Limit(8), 10),
		log:     log,
	}
}

func tokenSource(ctx context.Context, source domain.Source) (oauth2.TokenSource, error) {
	cfg := source.Config
	if at := cfg["access_token"]; at != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: at}), nil
	}
	if rt := cfg["refresh_token"]; rt != "" {
		if cfg["client_id"] == "" || cfg["client_secret"] == "" {
			return nil, fmt.Errorf("%w: source %q refresh_token needs client_id and client_secret",
				domain.ErrConfig, source.ID)
		}
		conf := &oauth2.Config{
			ClientID:     cfg["client_id"],
			ClientSecret: cfg["client_secret"],
			Endpoint:     google.Endpoint,
		}
		return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: rt}), nil
	}
	return nil, fmt.Errorf("%w: source %q needs an access_token or refresh_token", domain.ErrConfig, source.ID)
}

// SourceID returns the configured source ID.
func (a *Adapter) SourceID() string { return a.sourceID }

// Close releases nothing; the Drive client holds no exclusive session.
func (a *Adapter) Close() error { return nil }

// Discover enumerates note documents through both origins.
func (a *Adapter) Discover(ctx context.Context, since time.Time) ([]domain.Meeting, error) {
	var meetings []domain.Meeting

	owned, err := a.discoverOwned(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDiscovery, err)
	}
	meetings = append(meetings, owned...)

	shared, err := a.discoverShared(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDiscovery, err)
	}
	meetings = append(meetings, shared...)

	a.log.Debug("drive discovery finished",
		logger.Int("owned", len(owned)), logger.Int("shared", len(shared)))
	return meetings, nil
}

// discoverOwned lists documents inside the recordings folder.
func (a *Adapter) discoverOwned(ctx context.Context, since time.Time) ([]domain.Meeting, error) {
	folderID, err := a.findFolder(ctx)
	if err != nil {
		return nil, err
	}
	if folderID == "" {
		a.log.Debug("recordings folder not found", logger.String("folder", a.folder))
		return nil, nil
	}

	query := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false%s",
		folderID, mimeTypeDoc, sinceClause(since))
	return a.collect(ctx, query, domain.OriginOwned)
}

// discoverShared searches documents shared with the user.
func (a *Adapter) discoverShared(ctx context.Context, since time.Time) ([]domain.Meeting, error) {
	query := fmt.Sprintf("name contains 'Notes by Gemini' and mimeType = '%s'"+
		" and sharedWithMe and trashed = false%s", mimeTypeDoc, sinceClause(since))
	return a.collect(ctx, query, domain.OriginShared)
}

func (a *Adapter) findFolder(ctx context.Context) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(a.folder, "'", `\'`), mimeTypeFolder)

	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}
	list, err := a.api.listFiles(ctx, query, "")
	if err != nil {
		return "", fmt.Errorf("finding folder %q: %w", a.folder, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (a *Adapter) collect(ctx context.Context, query string, origin domain.DiscoveryOrigin) ([]domain.Meeting, error) {
	var meetings []domain.Meeting

	pageToken := ""
	for {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		list, err := a.api.listFiles(ctx, query, pageToken)
		if err != nil {
			return nil, fmt.Errorf("listing files: %w", err)
		}

		for _, f := range list.Files {
			meetings = append(meetings, a.toMeeting(f, origin))
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			return meetings, nil
		}
	}
}

func (a *Adapter) toMeeting(f *drivev3.File, origin domain.DiscoveryOrigin) domain.Meeting {
	title := strings.TrimSpace(geminiSuffix.ReplaceAllString(f.Name, ""))

	occurred, ok := parseTitleDate(title)
	if !ok {
		occurred = fileTime(f)
		a.log.Debug("no date in document title, using file time",
			logger.String("title", title))
	}

	return domain.Meeting{
		SourceID:   a.sourceID,
		ExternalID: f.Id,
		Title:      title,
		OccurredAt: occurred,
		Origin:     origin,
	}
}

// Sampler exports the document as HTML and extracts its text. Exports are
// complete documents, so samples are constant.
func (a *Adapter) Sampler(_ context.Context, m domain.Meeting) (driven.Sampler, error) {
	return func(ctx context.Context) (string, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", err
		}
		markup, err := a.api.exportHTML(ctx, m.ExternalID)
		if err != nil {
			return "", fmt.Errorf("exporting document %s: %w", m.ExternalID, err)
		}
		return htmltext.Extract(markup)
	}, nil
}

func sinceClause(since time.Time) string {
	if since.IsZero() {
		return ""
	}
	return fmt.Sprintf(" and modifiedTime >= '%s'", since.UTC().Format(time.RFC3339))
}

func fileTime(f *drivev3.File) time.Time {
	for _, raw := range []string{f.CreatedTime, f.ModifiedTime} {
		if raw == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
	}
	return time.Now()
}

// driveAPI is the production api implementation.
type driveAPI struct {
	svc *drivev3.Service
}

func (d *driveAPI) listFiles(ctx context.Context, query, pageToken string) (*drivev3.FileList, error) {
	call := d.svc.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name, mimeType, createdTime, modifiedTime)").
		PageSize(100).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (d *driveAPI) exportHTML(ctx context.Context, fileID string) (string, error) {
	resp, err := d.svc.Files.Export(fileID, exportMimeHTML).Context(ctx).Download()
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxExportSize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
