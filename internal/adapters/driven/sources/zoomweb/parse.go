package zoomweb

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/meetsync/internal/adapters/driven/htmltext"
)

// rowSelectors locate summary list rows, most specific first.
var rowSelectors = []string{
	"tr.zm-table__row.normal-row",
	"tr.zm-table__row",
	".zm-table__body tr",
	"table tbody tr",
}

// titleSelectors locate the meeting title inside a row, after the primary
// topic-link button.
var titleSelectors = []string{
	"td:nth-child(2) .cell",
	"[class*='topic']",
	"[class*='title']",
}

// dateSelectors locate the created date inside a row, after the primary
// date column.
var dateSelectors = []string{
	"[aria-describedby*='column_5'] .cell",
	"[class*='date']",
	"time",
}

// summarySelectors locate the rendered summary on a detail page, most
// specific first.
var summarySelectors = []string{
	".summary-web-detail",
	"[class*='summary-content']",
	"[class*='summaryContent']",
	"[class*='meeting-recap']",
	"[class*='meetingRecap']",
	"[class*='ai-companion'] [class*='content']",
	"[class*='summary-detail'] [class*='content']",
	"[data-testid*='summary-content']",
	"[data-testid*='summary']",
}

// Zoom renders created dates in a handful of formats.
var dateLayouts = []string{
	"Jan 2, 2006 3:04 PM",
	"January 2, 2006 3:04 PM",
	"01/02/2006 3:04 PM",
	"2006-01-02 15:04",
	"Jan 2, 2006",
	"01/02/2006",
}

var (
	monthDate   = regexp.MustCompile(`[A-Za-z]+ \d+, \d{4}`)
	slashedDate = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
)

// row is one parsed summary list entry.
type row struct {
	meetingID  string
	title      string
	occurredAt time.Time
	host       string
	detailHref string
}

// externalID prefers the portal meeting ID and degrades to a date+title
// key for rows where the ID column is missing.
func (r row) externalID() string {
	if r.meetingID != "" {
		return "zoom_" + r.meetingID
	}
	title := r.title
	if len(title) > 50 {
		title = title[:50]
	}
	return fmt.Sprintf("zoom_%s_%s", r.occurredAt.Format("20060102"), title)
}

// parseRows extracts summary rows from the list page, trying each row
// selector until one matches.
func parseRows(doc *goquery.Document) []row {
	for _, selector := range rowSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}

		var rows []row
		sel.Each(func(_ int, tr *goquery.Selection) {
			if r, ok := parseRow(tr); ok {
				rows = append(rows, r)
			}
		})
		if len(rows) > 0 {
			return rows
		}
	}
	return nil
}

func parseRow(tr *goquery.Selection) (row, bool) {
	r := row{
		title:      "Untitled Meeting",
		occurredAt: time.Now(),
	}

	// Title: the topic-link button carries it in aria-label or text.
	if btn := tr.Find("button.topic-link").First(); btn.Length() > 0 {
		if label, ok := btn.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
			r.title = strings.TrimSpace(label)
		} else if text := strings.TrimSpace(btn.Text()); text != "" {
			r.title = text
		}
	}
	if r.title == "Untitled Meeting" {
		for _, selector := range titleSelectors {
			text := strings.TrimSpace(tr.Find(selector).First().Text())
			if text != "" && text != "Topic" {
				r.title = text
				break
			}
		}
	}

	// Date created, column 5 first.
	if text := cellText(tr, "td:nth-child(5) .cell"); text != "" && !strings.Contains(text, "MM/DD") {
		if ts, ok := parseDateText(text); ok {
			r.occurredAt = ts
		}
	}
	if r.occurredAt.Truncate(24 * time.Hour).Equal(time.Now().Truncate(24 * time.Hour)) {
		for _, selector := range dateSelectors {
			text := cellText(tr, selector)
			if text == "" || strings.Contains(text, "MM/DD") {
				continue
			}
			if ts, ok := parseDateText(text); ok {
				r.occurredAt = ts
				break
			}
		}
	}

	// Meeting ID, column 3.
	r.meetingID = strings.ReplaceAll(cellText(tr, "td:nth-child(3) .cell"), " ", "")

	// Host, column 4.
	r.host = cellText(tr, "td:nth-child(4) .cell")

	// Detail link, when the row carries one.
	if href, ok := tr.Find("a[href]").First().Attr("href"); ok {
		r.detailHref = href
	}

	if r.title == "Untitled Meeting" && r.meetingID == "" {
		return row{}, false
	}
	return r, true
}

func cellText(tr *goquery.Selection, selector string) string {
	return strings.TrimSpace(tr.Find(selector).First().Text())
}

// parseDateText tries the known layouts, then falls back to pulling a bare
// date out of surrounding text.
func parseDateText(text string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts, true
		}
	}

	if match := monthDate.FindString(text); match != "" {
		if ts, err := time.Parse("Jan 2, 2006", match); err == nil {
			return ts, true
		}
	}
	if match := slashedDate.FindString(text); match != "" {
		if ts, err := time.Parse("1/2/2006", match); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// extractSummary pulls the rendered summary text out of a detail page,
// trying each known container and keeping the first plausible result.
func extractSummary(doc *goquery.Document) string {
	for _, selector := range summarySelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := cleanSummaryText(htmltext.FromSelection(sel))
		if text != "" {
			return text
		}
	}
	return ""
}

// Navigation chrome and metadata that leak into summary containers.
var (
	chromeLines = []string{
		"My Summaries", "Shared with me", "Trash", "Back to", "Share",
		"Delete", "Export", "Download", "Copy link", "Sign out",
		"Settings", "Profile", "Home", "Recordings", "Summaries",
	}
	metadataLines = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^ID:\s*[\d\s\-]+$`),
		regexp.MustCompile(`(?i)^Meeting ID:\s*[\d\s\-]+$`),
		regexp.MustCompile(`^\d{3}\s+\d{4}\s+\d{4}$`),
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		regexp.MustCompile(`(?i)^\d{1,2}:\d{2}\s*(AM|PM)?$`),
		regexp.MustCompile(`(?i)^Duration:\s*\d+`),
		regexp.MustCompile(`(?i)^Host:\s*\S+`),
		regexp.MustCompile(`(?i)^Topic:\s*`),
		regexp.MustCompile(`(?i)^\d+\s*min(utes?)?$`),
		regexp.MustCompile(`(?i)^Created:`),
	}
)

// cleanSummaryText strips portal navigation and metadata lines, keeping the
// summary body. Returns the input unchanged when cleaning would leave too
// little behind.
func cleanSummaryText(text string) string {
	var kept []string
	inSummary := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isChromeLine(line) || isMetadataLine(line) {
			continue
		}

		if strings.Contains(line, "Meeting Summary for") {
			inSummary = true
			continue
		}

		if len(line) < 10 && !strings.ContainsAny(line, ".?!:") {
			continue
		}

		if len(line) > 20 || (inSummary && len(line) > 5) {
			kept = append(kept, line)
			inSummary = true
		}
	}

	result := strings.Join(kept, "\n")
	if len(result) < 50 {
		return text
	}
	return result
}

func isChromeLine(line string) bool {
	for _, chrome := range chromeLines {
		if line == chrome || strings.HasPrefix(line, chrome+" ") {
			return true
		}
	}
	return false
}

func isMetadataLine(line string) bool {
	for _, re := range metadataLines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
