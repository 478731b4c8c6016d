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

// TourModule wires the tour catalog.
// Public: listing, the top-5-cheap preset, full-text search, single tour.
// Admin/lead-guide: create, update, delete, cover upload.
type TourModule struct {
	Tours   *handlers.TourHandler
	Reviews *handlers.ReviewHandler
	Repo    repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewTourModule(tours *handlers.TourHandler, reviews *handlers.ReviewHandler, repo repository.UserRepository, jwt *helpers.JWTManager) *TourModule {
	return &TourModule{Tours: tours, Reviews: reviews, Repo: repo, JWT: jwt}
}

func (m *TourModule) Register(rg *gin.RouterGroup) {
	publicLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	// Static segments before the :id wildcard
	rg.GET("/tours/top-5-cheap", publicLimiter, m.Tours.TopTours)
	rg.GET("/tours/tour-stats", publicLimiter, m.Tours.TourStats)
	rg.GET("/tours/monthly-plan/:year", publicLimiter, m.Tours.MonthlyPlan)
	rg.GET("/tours/search", publicLimiter, m.Tours.SearchTours)
	rg.GET("/tours", publicLimiter, m.Tours.ListTours)
	rg.GET("/tours/:id", publicLimiter, m.Tours.GetTour)
	rg.GET("/tours/:id/reviews", publicLimiter, m.Reviews.ListTourReviews)

	// Catalog management
	manage := rg.Group("/")
	manage.Use(middleware.Protect(m.Repo, m.JWT), middleware.RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide))
	{
		manage.POST("/tours", m.Tours.CreateTour)
		manage.PATCH("/tours/:id", m.Tours.UpdateTour)
		manage.DELETE("/tours/:id", m.Tours.DeleteTour)
		manage.POST("/tours/:id/cover", m.Tours.UploadCover)
	}

	// Posting a review is for regular users so guides cannot review their
	// own tours.
	post := rg.Group("/")
	post.Use(middleware.Protect(m.Repo, m.JWT), middleware.RestrictTo(entity.RoleUser))
	{
		post.POST("/tours/:id/reviews", m.Reviews.CreateReview)
	}
}
