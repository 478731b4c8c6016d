package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tourhub/tourhub-api/internal/application"
	"github.com/tourhub/tourhub-api/internal/interface/middleware"
	"github.com/tourhub/tourhub-api/pkg/apperror"
	"github.com/tourhub/tourhub-api/pkg/query"
	"github.com/tourhub/tourhub-api/pkg/response"
	"github.com/tourhub/tourhub-api/pkg/validation"
)

type ReviewHandler struct {
	Svc      *application.ReviewService
	Logger   *logrus.Logger
	Renderer apperror.Renderer
}

func NewReviewHandler(svc *application.ReviewService, logger *logrus.Logger, renderer apperror.Renderer) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Logger: logger, Renderer: renderer}
}

type reviewRequest struct {
	Review string `json:"review" binding:"required"`
	Rating int    `json:"rating" binding:"required,rating"`
}

type reviewUpdateRequest struct {
	Review string `json:"review"`
	Rating int    `json:"rating" binding:"omitempty,rating"`
}

// CreateReview posts a review on the tour from the route; the author is
// always the logged-in user.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	rv, err := h.Svc.CreateReview(c.Request.Context(), c.Param("id"), uid, application.ReviewInput{
		Review: req.Review,
		Rating: req.Rating,
	})
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"review": rv}, "review created", nil)
}

func (h *ReviewHandler) ListTourReviews(c *gin.Context) {
	d := query.Parse(c.Request.URL.Query())
	reviews, err := h.Svc.ListReviews(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": reviews}, "reviews", map[string]any{"results": len(reviews)})
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	rv, err := h.Svc.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": rv}, "review", nil)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	var req reviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.", nil)
		return
	}
	rv, err := h.Svc.UpdateReview(c.Request.Context(), c.Param("id"), caller, application.ReviewInput{
		Review: req.Review,
		Rating: req.Rating,
	})
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": rv}, "review updated", nil)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.", nil)
		return
	}
	if err := h.Svc.DeleteReview(c.Request.Context(), c.Param("id"), caller); err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.NoContent(c)
}
