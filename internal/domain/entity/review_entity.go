package entity

import "time"

// Review is a rating plus commentary authored by one user against one tour.
// The store enforces that (TourID, UserID) is unique: a user holds at most
// one review per tour.
type Review struct {
	ID        string    `db:"id"`
	Review    string    `db:"review"`
	Rating    int       `db:"rating"`
	TourID    string    `db:"tour_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
