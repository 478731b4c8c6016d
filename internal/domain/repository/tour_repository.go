package repository

import (
	"context"
	"time"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/pkg/query"
)

// TourRepository defines tour persistence. UpdateRatingStats is the only
// writer of the denormalized rating columns. Start dates live in a child
// table and are replaced wholesale on write.
type TourRepository interface {
	Create(ctx context.Context, t *entity.Tour) error
	GetByID(ctx context.Context, id string) (*entity.Tour, error)
	List(ctx context.Context, d query.Descriptor) ([]*entity.Tour, error)
	Update(ctx context.Context, t *entity.Tour) error
	Delete(ctx context.Context, id string) error
	UpdateRatingStats(ctx context.Context, id string, quantity int, average float64) error
	SetImageCover(ctx context.Context, id, url string) error
	ReplaceStartDates(ctx context.Context, tourID string, dates []time.Time) error
	GetStartDates(ctx context.Context, tourID string) ([]time.Time, error)
	Stats(ctx context.Context) ([]entity.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]entity.MonthlyPlanEntry, error)
}
