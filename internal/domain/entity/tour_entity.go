package entity

import "time"

// Difficulty levels accepted for a tour.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Tour is the primary domain entity being listed and reviewed.
// RatingsAverage and RatingsQuantity are denormalized from the reviews
// referencing the tour; when no reviews exist they hold the defaults
// (4.5 and 0). They are written only by the rating recompute, never by
// regular tour updates.
type Tour struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Slug            string    `db:"slug"`
	Duration        int       `db:"duration"`
	MaxGroupSize    int       `db:"max_group_size"`
	Difficulty      string    `db:"difficulty"`
	Price           float64   `db:"price"`
	Summary         string    `db:"summary"`
	Description     string    `db:"description"`
	ImageCover      string    `db:"image_cover"`
	RatingsAverage  float64   `db:"ratings_average"`
	RatingsQuantity int       `db:"ratings_quantity"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`

	// StartDates are the scheduled departures, kept in the
	// tour_start_dates child table rather than a tours column.
	StartDates []time.Time `db:"-" json:",omitempty"`
}

// Rating defaults applied when a tour has no reviews.
const (
	DefaultRatingsAverage  = 4.5
	DefaultRatingsQuantity = 0
)

// TourStats is one per-difficulty aggregation row over the well-rated
// part of the catalog (average rating at or above the default).
type TourStats struct {
	Difficulty string  `db:"difficulty"`
	NumTours   int     `db:"num_tours"`
	NumRatings int     `db:"num_ratings"`
	AvgRating  float64 `db:"avg_rating"`
	AvgPrice   float64 `db:"avg_price"`
	MinPrice   float64 `db:"min_price"`
	MaxPrice   float64 `db:"max_price"`
}

// MonthlyPlanEntry counts the tour departures that fall within one month
// of a given year, with the names of the departing tours.
type MonthlyPlanEntry struct {
	Month         int      `db:"month"`
	NumTourStarts int      `db:"num_tour_starts"`
	Tours         []string `db:"tours"`
}
