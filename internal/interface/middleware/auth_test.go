package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/internal/domain/repository"
	"github.com/tourhub/tourhub-api/pkg/helpers"
	"github.com/tourhub/tourhub-api/pkg/query"
)

// stubUserRepo serves only GetByID; the guard never calls anything else.
type stubUserRepo struct {
	users map[string]*entity.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok || !u.Active {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubUserRepo) List(context.Context, query.Descriptor) ([]*entity.User, error) {
	return nil, nil
}
func (s *stubUserRepo) Update(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) UpdatePassword(context.Context, string, string, time.Time) error {
	return nil
}
func (s *stubUserRepo) SetResetToken(context.Context, string, string, time.Time) error { return nil }
func (s *stubUserRepo) ClearResetToken(context.Context, string) error                  { return nil }
func (s *stubUserRepo) GetByResetDigest(context.Context, string, time.Time) (*entity.User, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubUserRepo) Deactivate(context.Context, string) error { return nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

func guardRouter(repo repository.UserRepository, jwt *helpers.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{Protect(repo, jwt)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})
	r.GET("/secure", chain...)
	return r
}

func do(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtectMissingToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := guardRouter(&stubUserRepo{users: map[string]*entity.User{}}, jwt)

	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You are not logged in")
}

func TestProtectInvalidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := guardRouter(&stubUserRepo{users: map[string]*entity.User{}}, jwt)

	w := do(r, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestProtectExpiredToken(t *testing.T) {
	expired := helpers.NewJWTManager("test-secret", -time.Minute)
	token, _, err := expired.Generate("u1")
	require.NoError(t, err)

	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := guardRouter(&stubUserRepo{users: map[string]*entity.User{}}, jwt)

	w := do(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")
}

func TestProtectAccountGone(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	r := guardRouter(&stubUserRepo{users: map[string]*entity.User{}}, jwt)

	w := do(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "does no longer exist")
}

func TestProtectStaleToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	changed := time.Now().Add(time.Minute)
	repo := &stubUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Active: true, Role: entity.RoleUser, PasswordChangedAt: &changed},
	}}
	r := guardRouter(repo, jwt)

	w := do(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "recently changed password")
}

func TestProtectPasswordChangedBeforeIssueIsFine(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	changed := time.Now().Add(-time.Hour)
	repo := &stubUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Active: true, Role: entity.RoleUser, PasswordChangedAt: &changed},
	}}
	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	r := guardRouter(repo, jwt)
	w := do(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
}

func TestProtectHappyPathHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	repo := &stubUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Active: true, Role: entity.RoleUser},
	}}
	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	r := guardRouter(repo, jwt)
	w := do(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectCookieFallback(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	repo := &stubUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Active: true, Role: entity.RoleUser},
	}}
	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	r := guardRouter(repo, jwt)
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(&http.Cookie{Name: helpers.CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRestrictTo(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	repo := &stubUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Active: true, Role: entity.RoleUser},
		"a1": {ID: "a1", Active: true, Role: entity.RoleAdmin},
	}}
	r := guardRouter(repo, jwt, RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide))

	userToken, _, err := jwt.Generate("u1")
	require.NoError(t, err)
	w := do(r, "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "You do not have permission")

	adminToken, _, err := jwt.Generate("a1")
	require.NoError(t, err)
	w = do(r, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
