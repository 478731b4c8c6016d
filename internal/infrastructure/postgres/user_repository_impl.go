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

// usersTable is the query-descriptor mapping for users. The password hash
// and reset digest are deliberately absent from both the allow-list and the
// public projection; they can never be filtered on or selected through a
// request parameter.
var usersTable = Table{
	Name: "users",
	Columns: map[string]string{
		"name":       "name",
		"email":      "email",
		"role":       "role",
		"active":     "active",
		"createdAt":  "created_at",
		"created_at": "created_at",
	},
	Public: []string{"id", "name", "email", "role", "active", "created_at", "updated_at"},
}

const userCols = `id, name, email, password, role, password_changed_at, password_reset_token, password_reset_expires, active, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&u.PasswordChangedAt, &u.PasswordResetToken, &u.PasswordResetExpires,
		&u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, active, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.Role)

	return row.Scan(&u.ID, &u.Active, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE id = $1 AND active
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE email = $1 AND active
	`, email))
}

func (r *UserRepository) List(ctx context.Context, d query.Descriptor) ([]*entity.User, error) {
	sql, args, err := BuildSelect(usersTable, d, query.Condition{Field: "active", Op: query.OpEq, Value: "true"})
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[entity.User])
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, updated_at = $3
		WHERE id = $4 AND active
	`, u.Name, u.Email, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password = $1, password_changed_at = $2, updated_at = now()
		WHERE id = $3 AND active
	`, hash, changedAt, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, digest string, expires time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_reset_token = $1, password_reset_expires = $2, updated_at = now()
		WHERE id = $3 AND active
	`, digest, expires, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires = NULL, updated_at = now()
		WHERE id = $1
	`, id)
	return err
}

func (r *UserRepository) GetByResetDigest(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE password_reset_token = $1 AND password_reset_expires > $2 AND active
	`, digest, now))
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET active = FALSE, updated_at = now()
		WHERE id = $1 AND active
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
