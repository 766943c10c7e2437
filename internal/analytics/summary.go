package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

// Summary is the top-level dashboard card payload.
type Summary struct {
	TodayFeedback int    `json:"today_feedback"`
	TotalFeedback int    `json:"total_feedback"`
	AverageRating string `json:"average_rating"`
}

// Summarize computes the headline counts. The average covers records carrying
// an overall rating, formatted to one decimal, "0.0" when none exist. Today
// is the calendar day of now in its own location.
func Summarize(records []models.Feedback, now time.Time) Summary {
	summary := Summary{TotalFeedback: len(records), AverageRating: "0.0"}

	loc := now.Location()
	today := midnight(now, loc)

	var sum, rated int
	for _, record := range records {
		if !record.CreatedAt.IsZero() && midnight(record.CreatedAt, loc).Equal(today) {
			summary.TodayFeedback++
		}
		if record.OverallRating > 0 {
			sum += record.OverallRating
			rated++
		}
	}
	if rated > 0 {
		summary.AverageRating = fmt.Sprintf("%.1f", float64(sum)/float64(rated))
	}

	return summary
}

// Round1 rounds to one decimal place, the precision every dashboard average
// is reported at.
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}
