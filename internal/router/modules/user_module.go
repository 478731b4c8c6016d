package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tourhub/tourhub-api/internal/container"
	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/internal/domain/repository"
	handlers "github.com/tourhub/tourhub-api/internal/interface/http"
	"github.com/tourhub/tourhub-api/internal/interface/middleware"
	"github.com/tourhub/tourhub-api/pkg/helpers"
)

// UserModule wires authentication and account routes.
// Public: signup, login, forgotPassword, resetPassword/:token
// Protected: logout, me, updateMe, deleteMe, updateMyPassword
// Admin: GET /users
type UserModule struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
	Repo  repository.UserRepository
	JWT   *helpers.JWTManager
}

func NewUserModule(auth *handlers.AuthHandler, users *handlers.UserHandler, repo repository.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Auth: auth, Users: users, Repo: repo, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with per-IP rate limits; login and forgotPassword are the
	// obvious brute-force targets.
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users/signup", signupLimiter, m.Auth.Signup)
	rg.POST("/users/login", loginLimiter, m.Auth.Login)
	rg.POST("/users/forgotPassword", forgotLimiter, m.Auth.ForgotPassword)
	rg.PATCH("/users/resetPassword/:token", resetLimiter, m.Auth.ResetPassword)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Protect(m.Repo, m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.POST("/users/logout", m.Auth.Logout)
		auth.GET("/users/me", m.Users.Me)
		auth.PATCH("/users/updateMe", m.Users.UpdateMe)
		auth.DELETE("/users/deleteMe", m.Users.DeleteMe)
		auth.PATCH("/users/updateMyPassword", m.Auth.UpdateMyPassword)
	}

	// Admin-only listing
	admin := rg.Group("/")
	admin.Use(middleware.Protect(m.Repo, m.JWT), middleware.RestrictTo(entity.RoleAdmin))
	{
		admin.GET("/users", m.Users.ListUsers)
	}
}
