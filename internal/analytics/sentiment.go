package analytics

import "github.com/jansamvad/police-feedback-api/internal/models"

// Sentiment is the classification derived from an overall rating.
type Sentiment string

const (
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
)

// SentimentOf classifies an overall rating: 1-4 negative, 5-6 neutral, 7-10
// positive. Anything outside 1-10, including a missing rating, is neutral.
// One rule for every caller; the legacy views disagreed with each other here.
func SentimentOf(rating int) Sentiment {
	switch {
	case rating >= 1 && rating <= 4:
		return SentimentNegative
	case rating >= 5 && rating <= 6:
		return SentimentNeutral
	case rating >= 7 && rating <= 10:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// SentimentBreakdown counts records per bucket.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// CountSentiments buckets the whole snapshot.
func CountSentiments(records []models.Feedback) SentimentBreakdown {
	var breakdown SentimentBreakdown
	for _, record := range records {
		switch SentimentOf(record.OverallRating) {
		case SentimentPositive:
			breakdown.Positive++
		case SentimentNegative:
			breakdown.Negative++
		default:
			breakdown.Neutral++
		}
	}
	return breakdown
}
