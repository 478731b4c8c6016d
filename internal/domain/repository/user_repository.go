package repository

import (
	"context"
	"time"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/pkg/query"
)

// UserRepository defines user persistence. Lookups exclude deactivated
// accounts unless stated otherwise; GetByEmail includes the password hash
// because it exists to serve login.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, d query.Descriptor) ([]*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id, digest string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	// GetByResetDigest returns the user whose stored reset digest matches and
	// whose expiry is still in the future.
	GetByResetDigest(ctx context.Context, digest string, now time.Time) (*entity.User, error)
	Deactivate(ctx context.Context, id string) error
}
