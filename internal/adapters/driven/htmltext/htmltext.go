// Package htmltext extracts readable text from rendered HTML fragments.
//
// Source adapters hand it the HTML of a summary panel or an exported
// document; it returns plain text with block structure preserved as line
// breaks and list items as bullets, ready for classification and the vault.
package htmltext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// blockTags get their own lines in the extracted text.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true,
	"table": true, "tr": true,
	"blockquote": true, "pre": true,
}

// skipTags contribute no text at all.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "svg": true, "head": true,
}

// Extract parses markup and returns its readable text.
func Extract(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	return FromSelection(sel), nil
}

// FromSelection returns the readable text of an already-matched selection.
func FromSelection(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		render(&b, n)
	}
	return tidy(b.String())
}

func render(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		switch n.Data {
		case "br", "hr":
			b.WriteString("\n")
			return
		case "li":
			b.WriteString("\n- ")
		default:
			if blockTags[n.Data] {
				b.WriteString("\n")
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(b, c)
	}

	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteString("\n")
	}
}

// tidy collapses intra-line whitespace, trims line ends, and caps blank runs.
func tidy(text string) string {
	text = multiSpaces.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimLeft(line, " "), " ")
	}
	text = strings.Join(lines, "\n")

	text = multiNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
