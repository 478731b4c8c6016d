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

var reviewsTable = Table{
	Name: "reviews",
	Columns: map[string]string{
		"rating":     "rating",
		"tour":       "tour_id",
		"user":       "user_id",
		"createdAt":  "created_at",
		"created_at": "created_at",
	},
	Public: []string{"id", "review", "rating", "tour_id", "user_id", "created_at", "updated_at"},
}

const reviewCols = `id, review, rating, tour_id, user_id, created_at, updated_at`

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts optimistically; a second review by the same user on the
// same tour violates reviews_tour_user_key and surfaces as a unique
// violation for the classifier.
func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (review, rating, tour_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, rv.Review, rv.Rating, rv.TourID, rv.UserID)

	return row.Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	rv := &entity.Review{}
	err := r.pool.QueryRow(ctx, `
		SELECT `+reviewCols+`
		FROM reviews
		WHERE id = $1
	`, id).Scan(&rv.ID, &rv.Review, &rv.Rating, &rv.TourID, &rv.UserID, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *ReviewRepository) ListByTour(ctx context.Context, tourID string, d query.Descriptor) ([]*entity.Review, error) {
	var extra []query.Condition
	if tourID != "" {
		extra = append(extra, query.Condition{Field: "tour", Op: query.OpEq, Value: tourID})
	}
	sql, args, err := BuildSelect(reviewsTable, d, extra...)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[entity.Review])
}

func (r *ReviewRepository) Update(ctx context.Context, rv *entity.Review) error {
	rv.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE reviews
		SET review = $1, rating = $2, updated_at = $3
		WHERE id = $4
	`, rv.Review, rv.Rating, rv.UpdatedAt, rv.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Stats aggregates the live reviews of a tour. AVG over zero rows is NULL,
// hence the COALESCE; a tour with no reviews returns (0, 0, nil).
func (r *ReviewRepository) Stats(ctx context.Context, tourID string) (int, float64, error) {
	var count int
	var avg float64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE tour_id = $1
	`, tourID).Scan(&count, &avg)
	if err != nil {
		return 0, 0, err
	}
	return count, avg, nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
