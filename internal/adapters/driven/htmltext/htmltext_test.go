package htmltext

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_BlocksAndBullets(t *testing.T) {
	markup := `<html><head><title>ignored</title></head><body>
		<h2>Action items</h2>
		<p>The team discussed the rollout.</p>
		<ul>
			<li>Draft the schedule</li>
			<li>Confirm capacity</li>
		</ul>
	</body></html>`

	got, err := Extract(markup)
	require.NoError(t, err)

	assert.NotContains(t, got, "ignored", "head content is dropped")
	lines := strings.Split(got, "\n")
	assert.Contains(t, lines, "Action items")
	assert.Contains(t, lines, "The team discussed the rollout.")
	assert.Contains(t, lines, "- Draft the schedule")
	assert.Contains(t, lines, "- Confirm capacity")
}

func TestExtract_DropsScriptAndStyle(t *testing.T) {
	markup := `<div><script>var x = 1;</script><style>.a{}</style>Visible text</div>`

	got, err := Extract(markup)
	require.NoError(t, err)

	assert.Equal(t, "Visible text", got)
}

func TestExtract_InlineMarkupStaysOnOneLine(t *testing.T) {
	markup := `<p>Alice <b>agreed</b> to <i>own</i> the task.</p>`

	got, err := Extract(markup)
	require.NoError(t, err)

	assert.Equal(t, "Alice agreed to own the task.", got)
}

func TestExtract_CollapsesWhitespace(t *testing.T) {
	markup := "<div>a\t\t b</div><div></div><div></div><div></div><div>c</div>"

	got, err := Extract(markup)
	require.NoError(t, err)

	assert.Equal(t, "a b\n\nc", got)
}

func TestFromSelection(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div class="summary"><p>Decisions were made.</p></div><div class="other">noise</div>`))
	require.NoError(t, err)

	got := FromSelection(doc.Find("div.summary"))

	assert.Equal(t, "Decisions were made.", got)
}

func TestExtract_BrSplitsLines(t *testing.T) {
	got, err := Extract(`<p>first<br>second</p>`)
	require.NoError(t, err)

	assert.Equal(t, "first\nsecond", got)
}
