package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

func stationRecords() []models.Feedback {
	return []models.Feedback{
		{PoliceStation: "CIDCO", OverallRating: 8},
		{PoliceStation: "Kranti Chowk", OverallRating: 6},
		{PoliceStation: "CIDCO", OverallRating: 9},
		{PoliceStation: "Satara", OverallRating: 6},
		{PoliceStation: "", OverallRating: 10},
	}
}

func TestAggregateStationsGroupsInEncounterOrder(t *testing.T) {
	stats := AggregateStations(stationRecords())

	require.Len(t, stats, 3)
	assert.Equal(t, "CIDCO", stats[0].Station)
	assert.Equal(t, 2, stats[0].FeedbackCount)
	assert.Equal(t, 8.5, stats[0].AverageRating)
	assert.Equal(t, []int{8, 9}, stats[0].Ratings)

	assert.Equal(t, "Kranti Chowk", stats[1].Station)
	assert.Equal(t, "Satara", stats[2].Station)
}

func TestAggregateStationsEmptyInput(t *testing.T) {
	assert.Empty(t, AggregateStations(nil))
}

func TestTopByRating(t *testing.T) {
	stats := AggregateStations(stationRecords())

	top := TopByRating(stats, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "CIDCO", top[0].Station)
	// tie between Kranti Chowk and Satara keeps encounter order
	assert.Equal(t, "Kranti Chowk", top[1].Station)
	assert.Equal(t, "Satara", top[2].Station)
}

func TestTopByCountExcludesEmptyStations(t *testing.T) {
	stats := []StationStat{
		{Station: "CIDCO", FeedbackCount: 2, AverageRating: 8.5},
		{Station: "Waluj", FeedbackCount: 0},
		{Station: "Satara", FeedbackCount: 5, AverageRating: 4},
	}

	top := TopByCount(stats, 3)
	require.Len(t, top, 2)
	assert.Equal(t, "Satara", top[0].Station)
	assert.Equal(t, "CIDCO", top[1].Station)
}

func TestTopNTruncates(t *testing.T) {
	stats := AggregateStations(stationRecords())
	top := TopByCount(stats, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "CIDCO", top[0].Station)
}

func TestStationRosterHasLocalNames(t *testing.T) {
	for _, station := range Stations() {
		assert.NotEmpty(t, station.Name)
		assert.NotEmpty(t, station.LocalName)
	}
}
