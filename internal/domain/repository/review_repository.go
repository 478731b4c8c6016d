package repository

import (
	"context"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/pkg/query"
)

// ReviewRepository defines review persistence. Create relies on the store's
// UNIQUE(tour_id, user_id) constraint to reject duplicate reviews; callers
// must not pre-check.
type ReviewRepository interface {
	Create(ctx context.Context, r *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	// ListByTour lists reviews for one tour; an empty tourID lists across all
	// tours.
	ListByTour(ctx context.Context, tourID string, d query.Descriptor) ([]*entity.Review, error)
	Update(ctx context.Context, r *entity.Review) error
	Delete(ctx context.Context, id string) error
	// Stats returns the live count and arithmetic mean rating of the tour's
	// reviews. count == 0 is a normal result, not an error.
	Stats(ctx context.Context, tourID string) (count int, avg float64, err error)
}
