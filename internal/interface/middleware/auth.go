package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/internal/domain/repository"
	"github.com/tourhub/tourhub-api/pkg/apperror"
	"github.com/tourhub/tourhub-api/pkg/helpers"
	"github.com/tourhub/tourhub-api/pkg/response"
)

const (
	// CtxUserKey holds the resolved *entity.User for the request.
	CtxUserKey = "currentUser"
	// CtxUserIDKey holds the resolved user id as a string.
	CtxUserIDKey = "userID"
)

// CurrentUser returns the identity the guard attached to the request.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}

func abortWith(c *gin.Context, err *apperror.Error) {
	response.Error[any](c, err.Status(), err.Message, nil)
	c.Abort()
}

// extractToken pulls the bearer credential from the Authorization header,
// falling back to the jwt cookie for browser clients.
func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if t, err := c.Cookie(helpers.CookieName); err == nil {
		return t
	}
	return ""
}

// Protect is the access guard: extract token, verify it, resolve the
// account, reject tokens issued before the last password change, then
// attach the identity to the request context. Any failure aborts the chain
// before downstream handlers run.
func Protect(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortWith(c, apperror.New(apperror.KindAuthMissing, "You are not logged in! Please log in to get access."))
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			if errors.Is(err, helpers.ErrTokenExpired) {
				abortWith(c, apperror.New(apperror.KindAuthExpired, "Your token has expired! Please log in again."))
			} else {
				abortWith(c, apperror.New(apperror.KindAuthInvalid, "Invalid token. Please log in again!"))
			}
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil || u == nil {
			abortWith(c, apperror.New(apperror.KindAuthInvalid, "The user belonging to this token does no longer exist."))
			return
		}

		if claims.IssuedAt != nil && u.ChangedPasswordAfter(claims.IssuedAt.Time) {
			abortWith(c, apperror.New(apperror.KindAuthStale, "User recently changed password! Please log in again."))
			return
		}

		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// RestrictTo allows only the listed roles past. It must run after Protect.
func RestrictTo(roles ...entity.Role) gin.HandlerFunc {
	allowed := make(map[entity.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			abortWith(c, apperror.New(apperror.KindAuthMissing, "You are not logged in! Please log in to get access."))
			return
		}
		if !allowed[u.Role] {
			abortWith(c, apperror.New(apperror.KindForbidden, "You do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}
