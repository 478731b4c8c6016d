package router

import (
	"github.com/tourhub/tourhub-api/internal/application"
	"github.com/tourhub/tourhub-api/internal/container"
	pginfra "github.com/tourhub/tourhub-api/internal/infrastructure/postgres"
	handlers "github.com/tourhub/tourhub-api/internal/interface/http"
	"github.com/tourhub/tourhub-api/internal/router/modules"
	"github.com/tourhub/tourhub-api/pkg/apperror"
	"github.com/tourhub/tourhub-api/pkg/helpers"
)

// InitModules builds every feature module from the container singletons and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	renderer := apperror.Renderer{Env: cfg.Env, Logger: logger}
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieExpiresIn)

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	tourRepo := pginfra.NewTourRepository(container.GetPGPool())
	reviewRepo := pginfra.NewReviewRepository(container.GetPGPool())

	authSvc := application.NewAuthService(userRepo, container.GetJWT(), container.GetRabbitPub(), cfg, logger)
	tourSvc := application.NewTourService(tourRepo, container.GetGCS(), cfg.GCSBucket, container.GetES(), cfg.ESToursIndex, logger)
	reviewSvc := application.NewReviewService(reviewRepo, tourRepo, logger)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cookies, renderer)
	userHandler := handlers.NewUserHandler(authSvc, logger, renderer)
	tourHandler := handlers.NewTourHandler(tourSvc, logger, renderer)
	reviewHandler := handlers.NewReviewHandler(reviewSvc, logger, renderer)

	jwt := container.GetJWT()
	r.Add(modules.NewUserModule(authHandler, userHandler, userRepo, jwt))
	r.Add(modules.NewTourModule(tourHandler, reviewHandler, userRepo, jwt))
	r.Add(modules.NewReviewModule(reviewHandler, userRepo, jwt))
}
