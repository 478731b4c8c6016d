package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/tourhub/tourhub-api/config"
	"github.com/tourhub/tourhub-api/pkg/helpers"
)

type seedTour struct {
	name         string
	duration     int
	maxGroupSize int
	difficulty   string
	price        float64
	summary      string
	startDates   []string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@tourhub.local"
	password := "password123"
	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, "Admin", email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)

	tours := []seedTour{
		{"The Forest Hiker", 5, 25, "easy", 397, "Breathtaking hike through the Canadian Banff National Park",
			[]string{"2026-04-25", "2026-07-20", "2026-10-05"}},
		{"The Sea Explorer", 7, 15, "medium", 497, "Exploring the jaw-dropping US east coast by foot and by boat",
			[]string{"2026-06-19", "2026-07-20", "2026-08-18"}},
		{"The Snow Adventurer", 4, 10, "difficult", 997, "Exciting adventure in the snow with snowboarding and skiing",
			[]string{"2026-01-05", "2026-02-12", "2027-01-06"}},
	}
	for _, t := range tours {
		var tourID string
		err = db.QueryRow(`
			INSERT INTO tours (name, slug, duration, max_group_size, difficulty, price, summary)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (slug) DO UPDATE SET price=EXCLUDED.price
			RETURNING id
		`, t.name, helpers.Slugify(t.name), t.duration, t.maxGroupSize, t.difficulty, t.price, t.summary).Scan(&tourID)
		if err != nil {
			log.Fatalf("failed to seed tour %q: %v", t.name, err)
		}

		// reseed the schedule wholesale so reruns stay idempotent
		if _, err = db.Exec(`DELETE FROM tour_start_dates WHERE tour_id = $1`, tourID); err != nil {
			log.Fatalf("failed to clear start dates for %q: %v", t.name, err)
		}
		for _, d := range t.startDates {
			if _, err = db.Exec(`
				INSERT INTO tour_start_dates (tour_id, starts_at)
				VALUES ($1, $2::date + time '09:00')
			`, tourID, d); err != nil {
				log.Fatalf("failed to seed start date for %q: %v", t.name, err)
			}
		}
		fmt.Printf("seeded tour: id=%s name=%q starts=%d\n", tourID, t.name, len(t.startDates))
	}
}
