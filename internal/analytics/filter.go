package analytics

import (
	"time"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

// Filter narrows a snapshot before aggregation. Zero values mean "no
// constraint". These are the date-range/station/sentiment filters the legacy
// dashboard applied client-side against the full fetch.
type Filter struct {
	From      *time.Time
	To        *time.Time
	Station   string
	Sentiment Sentiment
}

// IsZero reports whether the filter constrains anything.
func (f Filter) IsZero() bool {
	return f.From == nil && f.To == nil && f.Station == "" && f.Sentiment == ""
}

// Apply returns the records satisfying the filter. Date bounds are inclusive
// of the whole calendar day in the bound's own location.
func Apply(records []models.Feedback, f Filter) []models.Feedback {
	if f.IsZero() {
		return records
	}

	out := make([]models.Feedback, 0, len(records))
	for _, record := range records {
		if f.Station != "" && record.PoliceStation != f.Station {
			continue
		}
		if f.Sentiment != "" && SentimentOf(record.OverallRating) != f.Sentiment {
			continue
		}
		if f.From != nil {
			start := midnight(*f.From, f.From.Location())
			if record.CreatedAt.Before(start) {
				continue
			}
		}
		if f.To != nil {
			end := midnight(*f.To, f.To.Location()).AddDate(0, 0, 1)
			if !record.CreatedAt.Before(end) {
				continue
			}
		}
		out = append(out, record)
	}
	return out
}
