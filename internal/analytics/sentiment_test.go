package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

func TestSentimentOfBoundaries(t *testing.T) {
	cases := map[int]Sentiment{
		1:  SentimentNegative,
		4:  SentimentNegative,
		5:  SentimentNeutral,
		6:  SentimentNeutral,
		7:  SentimentPositive,
		10: SentimentPositive,
	}
	for rating, want := range cases {
		assert.Equal(t, want, SentimentOf(rating), "rating %d", rating)
	}
}

func TestSentimentOfOutOfRangeDefaultsNeutral(t *testing.T) {
	for _, rating := range []int{0, -1, 11, 100} {
		assert.Equal(t, SentimentNeutral, SentimentOf(rating), "rating %d", rating)
	}
}

func TestCountSentiments(t *testing.T) {
	records := []models.Feedback{
		{OverallRating: 2},
		{OverallRating: 5},
		{OverallRating: 9},
		{OverallRating: 10},
		{OverallRating: 0},
	}

	breakdown := CountSentiments(records)
	assert.Equal(t, 2, breakdown.Positive)
	assert.Equal(t, 2, breakdown.Neutral)
	assert.Equal(t, 1, breakdown.Negative)
}

func TestCountSentimentsEmpty(t *testing.T) {
	assert.Equal(t, SentimentBreakdown{}, CountSentiments(nil))
}
