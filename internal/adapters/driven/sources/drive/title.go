package drive

import (
	"regexp"
	"strings"
	"time"
)

// Title date formats Gemini and humans put in note names, tried in order.
var titleDatePatterns = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	{regexp.MustCompile(`\d{4}/\d{2}/\d{2}`), []string{"2006/01/02"}},
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), []string{"2006-01-02"}},
	{regexp.MustCompile(`[A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4}`), []string{"Jan 2 2006", "January 2 2006"}},
	{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`), []string{"1/2/2006"}},
	{regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2}\b`), []string{"1/2/06"}},
}

// parseTitleDate extracts a meeting date from a document title.
func parseTitleDate(title string) (time.Time, bool) {
	for _, p := range titleDatePatterns {
		match := p.re.FindString(title)
		if match == "" {
			continue
		}
		match = strings.ReplaceAll(match, ",", "")
		for _, layout := range p.layouts {
			if ts, err := time.Parse(layout, match); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}
