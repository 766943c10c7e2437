package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	records := []models.Feedback{
		{OverallRating: 3, CreatedAt: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)},
		{OverallRating: 8, CreatedAt: time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)},
	}

	summary := Summarize(records, now)
	assert.Equal(t, 1, summary.TodayFeedback)
	assert.Equal(t, 2, summary.TotalFeedback)
	assert.Equal(t, "5.5", summary.AverageRating)
}

func TestSummarizeSkipsUnratedInAverage(t *testing.T) {
	now := time.Now()
	records := []models.Feedback{
		{OverallRating: 6, CreatedAt: now},
		{OverallRating: 0, CreatedAt: now},
	}

	summary := Summarize(records, now)
	assert.Equal(t, "6.0", summary.AverageRating)
	assert.Equal(t, 2, summary.TotalFeedback)
}

func TestSummarizeEmptyInput(t *testing.T) {
	summary := Summarize(nil, time.Now())
	assert.Equal(t, 0, summary.TodayFeedback)
	assert.Equal(t, 0, summary.TotalFeedback)
	assert.Equal(t, "0.0", summary.AverageRating)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 4.7, Round1(4.666))
	assert.Equal(t, 4.6, Round1(4.649))
	assert.Equal(t, 5.0, Round1(4.95))
}
