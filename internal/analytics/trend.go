package analytics

import (
	"time"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

// DailyTrendPoint is one zero-filled day bucket of the trailing window.
type DailyTrendPoint struct {
	Date          string `json:"date"`
	Label         string `json:"label"`
	FeedbackCount int    `json:"feedback_count"`
}

// DailyTrend buckets submissions per calendar day over the trailing window
// (windowDays prior days plus today, in now's location), ascending. Records
// outside the window or without a timestamp are skipped.
func DailyTrend(records []models.Feedback, now time.Time, windowDays int) []DailyTrendPoint {
	if windowDays <= 0 {
		windowDays = DefaultConfig().TrendWindowDays
	}
	loc := now.Location()
	start := midnight(now, loc).AddDate(0, 0, -windowDays)

	points := make([]DailyTrendPoint, 0, windowDays+1)
	index := make(map[string]int, windowDays+1)
	for i := 0; i <= windowDays; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		index[key] = len(points)
		points = append(points, DailyTrendPoint{
			Date:  key,
			Label: day.Format("02/01"),
		})
	}

	for _, record := range records {
		if record.CreatedAt.IsZero() {
			continue
		}
		key := record.CreatedAt.In(loc).Format("2006-01-02")
		if i, ok := index[key]; ok {
			points[i].FeedbackCount++
		}
	}

	return points
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
