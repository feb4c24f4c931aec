package pocket

import (
	"encoding/json"
	"time"

	"github.com/custodia-labs/meetsync/internal/logger"
)

// recording is one item from the recordings endpoints.
type recording struct {
	ID             json.Number             `json:"id"`
	Title          string                  `json:"title"`
	Duration       float64                 `json:"duration"` // seconds
	RecordedAt     string                  `json:"recorded_at"`
	CreatedAt      string                  `json:"created_at"`
	UpdatedAt      string                  `json:"updated_at"`
	Summarizations map[string]summaryValue `json:"summarizations"`
}

// occurredAt applies the date fallback chain: recorded_at, then created_at,
// then updated_at, then the current time.
func (r recording) occurredAt(log logger.Logger) time.Time {
	for _, raw := range []string{r.RecordedAt, r.CreatedAt, r.UpdatedAt} {
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			log.Warn("invalid recording date", logger.String("value", raw))
			continue
		}
		return ts
	}
	log.Warn("recording has no usable date, using current time",
		logger.String("recording_id", r.ID.String()))
	return time.Now()
}

// summaryValue is either a plain string or an object carrying the text
// under "markdown", "text", or "content".
type summaryValue struct {
	Text string
}

func (v *summaryValue) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v.Text = s
		return nil
	}

	var obj struct {
		Markdown string `json:"markdown"`
		Text     string `json:"text"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		// Unknown shape (array, number); treat as absent.
		v.Text = ""
		return nil
	}
	switch {
	case obj.Markdown != "":
		v.Text = obj.Markdown
	case obj.Text != "":
		v.Text = obj.Text
	default:
		v.Text = obj.Content
	}
	return nil
}

// listResponse tolerates the API's two list shapes: a bare array, or an
// envelope with pagination under "data".
type listResponse struct {
	bare []recording
	env  struct {
		Data struct {
			Items      []recording `json:"items"`
			Recordings []recording `json:"recordings"`
			TotalPages int         `json:"total_pages"`
			Page       int         `json:"page"`
		} `json:"data"`
	}
}

func (l *listResponse) UnmarshalJSON(raw []byte) error {
	if err := json.Unmarshal(raw, &l.bare); err == nil {
		return nil
	}
	return json.Unmarshal(raw, &l.env)
}

func (l *listResponse) items() []recording {
	if l.bare != nil {
		return l.bare
	}
	if len(l.env.Data.Items) > 0 {
		return l.env.Data.Items
	}
	return l.env.Data.Recordings
}

func (l *listResponse) totalPages() int {
	if l.bare != nil || l.env.Data.TotalPages < 1 {
		return 1
	}
	return l.env.Data.TotalPages
}

// detailResponse tolerates a bare recording or a "data" envelope.
type detailResponse struct {
	rec recording
}

func (d *detailResponse) UnmarshalJSON(raw []byte) error {
	var env struct {
		Data *recording `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		d.rec = *env.Data
		return nil
	}
	return json.Unmarshal(raw, &d.rec)
}

func (d *detailResponse) recording() *recording {
	return &d.rec
}
