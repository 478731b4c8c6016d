package application

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/internal/domain/repository"
	"github.com/tourhub/tourhub-api/pkg/apperror"
	"github.com/tourhub/tourhub-api/pkg/query"
)

// ReviewService owns review mutations and keeps the denormalized rating
// summary on the parent tour consistent with them. Every create, update and
// delete triggers exactly one synchronous recompute keyed by the review's
// tour at mutation time.
type ReviewService struct {
	Reviews repository.ReviewRepository
	Tours   repository.TourRepository
	Logger  *logrus.Logger
}

func NewReviewService(reviews repository.ReviewRepository, tours repository.TourRepository, logger *logrus.Logger) *ReviewService {
	return &ReviewService{Reviews: reviews, Tours: tours, Logger: logger}
}

type ReviewInput struct {
	Review string
	Rating int
}

// CreateReview inserts optimistically; the store's uniqueness constraint on
// (tour, user) is the duplicate guard, not a racy pre-check.
func (s *ReviewService) CreateReview(ctx context.Context, tourID, userID string, in ReviewInput) (*entity.Review, error) {
	if _, err := s.Tours.GetByID(ctx, tourID); err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "No tour found with that ID", err)
	}
	rv := &entity.Review{
		Review: in.Review,
		Rating: in.Rating,
		TourID: tourID,
		UserID: userID,
	}
	if err := s.Reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	s.recalc(ctx, tourID)
	return rv, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id string) (*entity.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "No review found with that ID", err)
	}
	return rv, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, tourID string, d query.Descriptor) ([]*entity.Review, error) {
	return s.Reviews.ListByTour(ctx, tourID, d)
}

// UpdateReview lets the owner or an admin edit a review.
func (s *ReviewService) UpdateReview(ctx context.Context, id string, caller *entity.User, in ReviewInput) (*entity.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "No review found with that ID", err)
	}
	if rv.UserID != caller.ID && caller.Role != entity.RoleAdmin {
		return nil, apperror.New(apperror.KindForbidden, "You do not have permission to perform this action")
	}
	if in.Review != "" {
		rv.Review = in.Review
	}
	if in.Rating != 0 {
		rv.Rating = in.Rating
	}
	if err := s.Reviews.Update(ctx, rv); err != nil {
		return nil, err
	}
	s.recalc(ctx, rv.TourID)
	return rv, nil
}

// DeleteReview removes a review; the tour id is captured before the delete
// so the recompute still knows which parent to refresh.
func (s *ReviewService) DeleteReview(ctx context.Context, id string, caller *entity.User) error {
	rv, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		return apperror.Wrap(apperror.KindNotFound, "No review found with that ID", err)
	}
	if rv.UserID != caller.ID && caller.Role != entity.RoleAdmin {
		return apperror.New(apperror.KindForbidden, "You do not have permission to perform this action")
	}
	if err := s.Reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.recalc(ctx, rv.TourID)
	return nil
}

// RecalcTourRatings recomputes the tour's rating summary from its live
// reviews. Zero remaining reviews is the normal "last review removed" path
// and restores the defaults. Two concurrent recomputes on the same tour may
// race; the last write wins, which is acceptable for summary statistics.
func (s *ReviewService) RecalcTourRatings(ctx context.Context, tourID string) error {
	count, avg, err := s.Reviews.Stats(ctx, tourID)
	if err != nil {
		return err
	}
	if count == 0 {
		return s.Tours.UpdateRatingStats(ctx, tourID, entity.DefaultRatingsQuantity, entity.DefaultRatingsAverage)
	}
	return s.Tours.UpdateRatingStats(ctx, tourID, count, roundRating(avg))
}

// recalc runs after a committed mutation. The review write already
// succeeded, so a failed recompute is logged rather than failing the
// request; the next mutation on the tour repairs the summary.
func (s *ReviewService) recalc(ctx context.Context, tourID string) {
	if err := s.RecalcTourRatings(ctx, tourID); err != nil {
		s.Logger.WithError(err).WithField("tour_id", tourID).Warn("rating recompute failed")
	}
}

// roundRating keeps averages at one decimal, e.g. 4.6666 -> 4.7.
func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
