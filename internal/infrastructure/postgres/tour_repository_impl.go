package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/internal/domain/repository"
	"github.com/tourhub/tourhub-api/pkg/query"
)

// toursTable maps the external query grammar (camelCase, as documented in
// the API) onto tour columns.
var toursTable = Table{
	Name: "tours",
	Columns: map[string]string{
		"name":            "name",
		"slug":            "slug",
		"duration":        "duration",
		"maxGroupSize":    "max_group_size",
		"difficulty":      "difficulty",
		"price":           "price",
		"summary":         "summary",
		"ratingsAverage":  "ratings_average",
		"ratingsQuantity": "ratings_quantity",
		"createdAt":       "created_at",
		"created_at":      "created_at",
	},
	Public: []string{
		"id", "name", "slug", "duration", "max_group_size", "difficulty",
		"price", "summary", "description", "image_cover",
		"ratings_average", "ratings_quantity", "created_at", "updated_at",
	},
}

const tourCols = `id, name, slug, duration, max_group_size, difficulty, price, summary, description, image_cover, ratings_average, ratings_quantity, created_at, updated_at`

type TourRepository struct {
	pool *pgxpool.Pool
}

func NewTourRepository(pool *pgxpool.Pool) *TourRepository {
	return &TourRepository{pool: pool}
}

func (r *TourRepository) scanTour(row pgx.Row) (*entity.Tour, error) {
	t := &entity.Tour{}
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Duration, &t.MaxGroupSize,
		&t.Difficulty, &t.Price, &t.Summary, &t.Description, &t.ImageCover,
		&t.RatingsAverage, &t.RatingsQuantity, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TourRepository) Create(ctx context.Context, t *entity.Tour) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tours (name, slug, duration, max_group_size, difficulty, price, summary, description, image_cover)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, ratings_average, ratings_quantity, created_at, updated_at
	`, t.Name, t.Slug, t.Duration, t.MaxGroupSize, t.Difficulty, t.Price, t.Summary, t.Description, t.ImageCover)

	return row.Scan(&t.ID, &t.RatingsAverage, &t.RatingsQuantity, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TourRepository) GetByID(ctx context.Context, id string) (*entity.Tour, error) {
	return r.scanTour(r.pool.QueryRow(ctx, `
		SELECT `+tourCols+`
		FROM tours
		WHERE id = $1
	`, id))
}

func (r *TourRepository) List(ctx context.Context, d query.Descriptor) ([]*entity.Tour, error) {
	sql, args, err := BuildSelect(toursTable, d)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[entity.Tour])
}

func (r *TourRepository) Update(ctx context.Context, t *entity.Tour) error {
	t.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE tours
		SET name = $1, slug = $2, duration = $3, max_group_size = $4, difficulty = $5,
		    price = $6, summary = $7, description = $8, updated_at = $9
		WHERE id = $10
	`, t.Name, t.Slug, t.Duration, t.MaxGroupSize, t.Difficulty, t.Price, t.Summary, t.Description, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *TourRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateRatingStats writes the denormalized rating summary. Concurrent
// recomputes race last-writer-wins; see ReviewService.
func (r *TourRepository) UpdateRatingStats(ctx context.Context, id string, quantity int, average float64) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE tours
		SET ratings_quantity = $1, ratings_average = $2, updated_at = now()
		WHERE id = $3
	`, quantity, average, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *TourRepository) SetImageCover(ctx context.Context, id, url string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE tours
		SET image_cover = $1, updated_at = now()
		WHERE id = $2
	`, url, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ReplaceStartDates swaps the full departure schedule of a tour in one
// transaction so readers never observe a partial schedule.
func (r *TourRepository) ReplaceStartDates(ctx context.Context, tourID string, dates []time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tour_start_dates WHERE tour_id = $1`, tourID); err != nil {
		return err
	}
	if len(dates) > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO tour_start_dates (tour_id, starts_at)
			SELECT $1, unnest($2::timestamptz[])
		`, tourID, dates)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *TourRepository) GetStartDates(ctx context.Context, tourID string) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT starts_at
		FROM tour_start_dates
		WHERE tour_id = $1
		ORDER BY starts_at
	`, tourID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[time.Time])
}

// Stats aggregates the well-rated part of the catalog per difficulty.
// Only tours at or above the default rating participate, so a fresh
// catalog with no reviews still shows up.
func (r *TourRepository) Stats(ctx context.Context) ([]entity.TourStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT upper(difficulty)                   AS difficulty,
		       COUNT(*)                            AS num_tours,
		       COALESCE(SUM(ratings_quantity), 0)  AS num_ratings,
		       AVG(ratings_average)                AS avg_rating,
		       AVG(price)                          AS avg_price,
		       MIN(price)                          AS min_price,
		       MAX(price)                          AS max_price
		FROM tours
		WHERE ratings_average >= $1
		GROUP BY difficulty
		ORDER BY avg_price
	`, entity.DefaultRatingsAverage)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[entity.TourStats])
}

// MonthlyPlan counts departures per month of the given year, busiest
// month first, capped at the twelve possible months.
func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]entity.MonthlyPlanEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(MONTH FROM sd.starts_at)::int AS month,
		       COUNT(*)                              AS num_tour_starts,
		       ARRAY_AGG(t.name ORDER BY t.name)     AS tours
		FROM tour_start_dates sd
		JOIN tours t ON t.id = sd.tour_id
		WHERE sd.starts_at >= make_date($1::int, 1, 1)
		  AND sd.starts_at < make_date($1::int + 1, 1, 1)
		GROUP BY month
		ORDER BY num_tour_starts DESC, month
		LIMIT 12
	`, year)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[entity.MonthlyPlanEntry])
}

var _ repository.TourRepository = (*TourRepository)(nil)
