package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTourFixture() (*TourService, *fakeTourRepo) {
	tours := newFakeTourRepo()
	svc := NewTourService(tours, nil, "", nil, "", testLogger())
	return svc, tours
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 0, 0, 0, time.UTC)
}

func TestCreateTourKeepsStartDates(t *testing.T) {
	svc, _ := newTourFixture()

	dates := []time.Time{date(2026, time.June, 19), date(2026, time.April, 25)}
	tour, err := svc.CreateTour(context.Background(), TourInput{
		Name: "The Forest Hiker", Duration: 5, MaxGroupSize: 25,
		Difficulty: "easy", Price: 397, Summary: "Forests",
		StartDates: dates,
	})
	require.NoError(t, err)

	got, err := svc.GetTour(context.Background(), tour.ID)
	require.NoError(t, err)
	require.Len(t, got.StartDates, 2)
	assert.True(t, got.StartDates[0].Before(got.StartDates[1]))
}

func TestUpdateTourReplacesStartDates(t *testing.T) {
	svc, _ := newTourFixture()

	tour, err := svc.CreateTour(context.Background(), TourInput{
		Name: "The Sea Explorer", Duration: 7, MaxGroupSize: 15,
		Difficulty: "medium", Price: 497, Summary: "Sea",
		StartDates: []time.Time{date(2026, time.June, 19), date(2026, time.July, 20)},
	})
	require.NoError(t, err)

	_, err = svc.UpdateTour(context.Background(), tour.ID, TourInput{
		StartDates: []time.Time{date(2027, time.March, 1)},
	})
	require.NoError(t, err)

	got, err := svc.GetTour(context.Background(), tour.ID)
	require.NoError(t, err)
	require.Len(t, got.StartDates, 1)
	assert.Equal(t, 2027, got.StartDates[0].Year())
}

func TestTourStatsGroupsByDifficulty(t *testing.T) {
	svc, tours := newTourFixture()

	mk := func(name, difficulty string, price float64) string {
		tour, err := svc.CreateTour(context.Background(), TourInput{
			Name: name, Duration: 5, MaxGroupSize: 10,
			Difficulty: difficulty, Price: price, Summary: "s",
		})
		require.NoError(t, err)
		return tour.ID
	}

	mk("A", "easy", 300)
	mk("B", "easy", 500)
	poorly := mk("C", "medium", 900)
	mk("D", "difficult", 100)

	// drop the medium tour below the rating cutoff
	require.NoError(t, tours.UpdateRatingStats(context.Background(), poorly, 3, 3.2))

	stats, err := svc.TourStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// cheapest group first
	assert.Equal(t, "DIFFICULT", stats[0].Difficulty)
	assert.Equal(t, 1, stats[0].NumTours)

	easy := stats[1]
	assert.Equal(t, "EASY", easy.Difficulty)
	assert.Equal(t, 2, easy.NumTours)
	assert.InDelta(t, 400, easy.AvgPrice, 0.001)
	assert.InDelta(t, 300, easy.MinPrice, 0.001)
	assert.InDelta(t, 500, easy.MaxPrice, 0.001)
	assert.InDelta(t, 4.5, easy.AvgRating, 0.001)
}

func TestMonthlyPlanScopedToYearAndSorted(t *testing.T) {
	svc, _ := newTourFixture()

	mk := func(name string, dates ...time.Time) {
		_, err := svc.CreateTour(context.Background(), TourInput{
			Name: name, Duration: 5, MaxGroupSize: 10,
			Difficulty: "easy", Price: 100, Summary: "s",
			StartDates: dates,
		})
		require.NoError(t, err)
	}

	mk("The Forest Hiker", date(2026, time.June, 1), date(2026, time.July, 5))
	mk("The Sea Explorer", date(2026, time.July, 20), date(2025, time.July, 20))
	mk("The Snow Adventurer", date(2026, time.July, 30))

	plan, err := svc.MonthlyPlan(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	july := plan[0]
	assert.Equal(t, 7, july.Month)
	assert.Equal(t, 3, july.NumTourStarts)
	assert.ElementsMatch(t, []string{"The Forest Hiker", "The Sea Explorer", "The Snow Adventurer"}, july.Tours)

	assert.Equal(t, 6, plan[1].Month)
	assert.Equal(t, 1, plan[1].NumTourStarts)

	empty, err := svc.MonthlyPlan(context.Background(), 2030)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
