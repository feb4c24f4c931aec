package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const genuineSummary = `Quarterly planning review

The team discussed the roadmap for the next quarter and agreed on three priorities.
Alice presented the migration plan and the group decided to start with the billing service.

Action items:
- Bob to draft the rollout schedule by Friday.
- Carol to confirm capacity with the platform team.`

func TestClassify_AcceptsGenuineSummary(t *testing.T) {
	c := NewClassifier()

	v := c.Classify(genuineSummary)

	assert.True(t, v.Accepted)
	assert.Empty(t, v.Reason)
}

func TestClassify_RejectsPlaceholders(t *testing.T) {
	c := NewClassifier()

	placeholders := []string{
		"A summary was not generated for this meeting.",
		"Insufficient transcript to create a summary.",
		"No summary is available yet.",
		"Your summary is being generated.",
		"We are processing your summary.",
		"The summary will be available shortly.",
		"SUMMARY IS BEING GENERATED", // case-insensitive
	}
	for _, text := range placeholders {
		v := c.Classify(text)
		assert.False(t, v.Accepted, "should reject %q", text)
		assert.Contains(t, v.Reason, "placeholder")
	}
}

func TestClassify_PlaceholderPhraseInLongContentIsKept(t *testing.T) {
	c := NewClassifier()

	// A real summary may quote a placeholder phrase; only short texts are
	// treated as placeholders.
	text := genuineSummary + "\nDave noted that last week no summary is available for the retro." +
		strings.Repeat(" The group discussed follow-ups in detail.", 3)

	v := c.Classify(text)

	assert.True(t, v.Accepted)
}

func TestClassify_RejectsMetadataPage(t *testing.T) {
	c := NewClassifier()

	text := `ID: 812 4411 0923
Topic: Weekly sync
Host: Alice
Duration: 30 minutes
12/05/2026
10:30 AM`

	v := c.Classify(text)

	assert.False(t, v.Accepted)
	assert.Contains(t, v.Reason, "metadata")
}

func TestClassify_RejectsShortContent(t *testing.T) {
	c := NewClassifier()

	v := c.Classify("We discussed the thing. All agreed.")

	assert.False(t, v.Accepted)
	assert.Contains(t, v.Reason, "too short")
}

func TestClassify_RejectsEmpty(t *testing.T) {
	c := NewClassifier()

	for _, text := range []string{"", "   \n\t\n  "} {
		v := c.Classify(text)
		assert.False(t, v.Accepted)
	}
}

func TestClassify_MixedLeaningContent(t *testing.T) {
	c := NewClassifier()

	// Metadata header followed by enough narrative to outweigh it.
	text := `Topic: Incident review
12/01/2026

The team discussed the outage timeline and the gaps in alerting coverage that delayed response.
Everyone agreed the paging policy needs an owner, and action items were assigned to the on-call leads.
Participants walked through the postmortem document and decided to schedule a follow-up meeting.`

	v := c.Classify(text)

	assert.True(t, v.Accepted)
}
