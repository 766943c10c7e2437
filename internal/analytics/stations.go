package analytics

import (
	"sort"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

// Station pairs the canonical English station name with its local-language
// display name. The public form submits the English name, so station grouping
// needs no normalization.
type Station struct {
	Name      string `json:"name"`
	LocalName string `json:"local_name"`
}

// Stations returns the fixed station roster served to the public form.
func Stations() []Station {
	return []Station{
		{Name: "City Chowk", LocalName: "सिटी चौक"},
		{Name: "Kranti Chowk", LocalName: "क्रांती चौक"},
		{Name: "CIDCO", LocalName: "सिडको"},
		{Name: "Osmanpura", LocalName: "उस्मानपुरा"},
		{Name: "Jawahar Nagar", LocalName: "जवाहर नगर"},
		{Name: "Mukundwadi", LocalName: "मुकुंदवाडी"},
		{Name: "Satara", LocalName: "सातारा"},
		{Name: "Waluj", LocalName: "वाळूज"},
		{Name: "MIDC Cidco", LocalName: "एमआयडीसी सिडको"},
		{Name: "Begumpura", LocalName: "बेगमपुरा"},
	}
}

// StationStat aggregates feedback per raw police_station value. The raw
// ratings list is retained for further derivations.
type StationStat struct {
	Station       string  `json:"station"`
	FeedbackCount int     `json:"feedback_count"`
	AverageRating float64 `json:"average_rating"`
	Ratings       []int   `json:"ratings"`
}

// AggregateStations groups the snapshot by police_station in first-encounter
// order. Records without a station are skipped.
func AggregateStations(records []models.Feedback) []StationStat {
	index := make(map[string]int)
	stats := make([]StationStat, 0)

	for _, record := range records {
		if record.PoliceStation == "" {
			continue
		}
		i, seen := index[record.PoliceStation]
		if !seen {
			i = len(stats)
			index[record.PoliceStation] = i
			stats = append(stats, StationStat{Station: record.PoliceStation})
		}
		stats[i].FeedbackCount++
		stats[i].Ratings = append(stats[i].Ratings, record.OverallRating)
	}

	for i := range stats {
		var sum int
		for _, rating := range stats[i].Ratings {
			sum += rating
		}
		stats[i].AverageRating = Round1(float64(sum) / float64(stats[i].FeedbackCount))
	}

	return stats
}

// TopByRating returns up to n stations with at least one feedback, sorted by
// average rating descending. Ties keep encounter order.
func TopByRating(stats []StationStat, n int) []StationStat {
	return topN(stats, n, func(a, b StationStat) bool {
		return a.AverageRating > b.AverageRating
	})
}

// TopByCount returns up to n stations with at least one feedback, sorted by
// feedback count descending. Ties keep encounter order.
func TopByCount(stats []StationStat, n int) []StationStat {
	return topN(stats, n, func(a, b StationStat) bool {
		return a.FeedbackCount > b.FeedbackCount
	})
}

func topN(stats []StationStat, n int, less func(a, b StationStat) bool) []StationStat {
	ranked := make([]StationStat, 0, len(stats))
	for _, stat := range stats {
		if stat.FeedbackCount > 0 {
			ranked = append(ranked, stat)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
