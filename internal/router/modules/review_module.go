package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/internal/domain/repository"
	handlers "github.com/tourhub/tourhub-api/internal/interface/http"
	"github.com/tourhub/tourhub-api/internal/interface/middleware"
	"github.com/tourhub/tourhub-api/pkg/helpers"
)

// ReviewModule wires the flat review routes. Ownership checks live in the
// service; the route level only requires a login and a sensible role.
type ReviewModule struct {
	Handler *handlers.ReviewHandler
	Repo    repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewReviewModule(h *handlers.ReviewHandler, repo repository.UserRepository, jwt *helpers.JWTManager) *ReviewModule {
	return &ReviewModule{Handler: h, Repo: repo, JWT: jwt}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Protect(m.Repo, m.JWT))
	{
		auth.GET("/reviews/:id", m.Handler.GetReview)
	}

	edit := rg.Group("/")
	edit.Use(middleware.Protect(m.Repo, m.JWT), middleware.RestrictTo(entity.RoleUser, entity.RoleAdmin))
	{
		edit.PATCH("/reviews/:id", m.Handler.UpdateReview)
		edit.DELETE("/reviews/:id", m.Handler.DeleteReview)
	}
}
