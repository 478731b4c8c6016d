package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tourhub/tourhub-api/internal/application"
	"github.com/tourhub/tourhub-api/pkg/apperror"
	"github.com/tourhub/tourhub-api/pkg/query"
	"github.com/tourhub/tourhub-api/pkg/response"
	"github.com/tourhub/tourhub-api/pkg/validation"
)

type TourHandler struct {
	Svc      *application.TourService
	Logger   *logrus.Logger
	Renderer apperror.Renderer
}

func NewTourHandler(svc *application.TourService, logger *logrus.Logger, renderer apperror.Renderer) *TourHandler {
	return &TourHandler{Svc: svc, Logger: logger, Renderer: renderer}
}

type tourRequest struct {
	Name         string      `json:"name" binding:"required"`
	Duration     int         `json:"duration" binding:"required,gt=0"`
	MaxGroupSize int         `json:"maxGroupSize" binding:"required,gt=0"`
	Difficulty   string      `json:"difficulty" binding:"required,oneof=easy medium difficult"`
	Price        float64     `json:"price" binding:"required,gt=0"`
	Summary      string      `json:"summary" binding:"required"`
	Description  string      `json:"description"`
	ImageCover   string      `json:"imageCover"`
	StartDates   []time.Time `json:"startDates"`
}

type tourUpdateRequest struct {
	Name         string      `json:"name"`
	Duration     int         `json:"duration" binding:"omitempty,gt=0"`
	MaxGroupSize int         `json:"maxGroupSize" binding:"omitempty,gt=0"`
	Difficulty   string      `json:"difficulty" binding:"omitempty,oneof=easy medium difficult"`
	Price        float64     `json:"price" binding:"omitempty,gt=0"`
	Summary      string      `json:"summary"`
	Description  string      `json:"description"`
	StartDates   []time.Time `json:"startDates"`
}

func (h *TourHandler) ListTours(c *gin.Context) {
	d := query.Parse(c.Request.URL.Query())
	tours, err := h.Svc.ListTours(c.Request.Context(), d)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tours": tours}, "tours", map[string]any{"results": len(tours)})
}

// TopTours is the "top 5 cheap" preset: a fixed parameter set run through
// the same query pipeline as a regular listing.
func (h *TourHandler) TopTours(c *gin.Context) {
	params := url.Values{
		"limit":  {"5"},
		"sort":   {"-ratingsAverage,price"},
		"fields": {"name,price,ratingsAverage,summary,difficulty"},
	}
	d := query.Parse(params)
	tours, err := h.Svc.ListTours(c.Request.Context(), d)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tours": tours}, "top tours", map[string]any{"results": len(tours)})
}

func (h *TourHandler) GetTour(c *gin.Context) {
	t, err := h.Svc.GetTour(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": t}, "tour", nil)
}

func (h *TourHandler) CreateTour(c *gin.Context) {
	var req tourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.CreateTour(c.Request.Context(), application.TourInput{
		Name:         req.Name,
		Duration:     req.Duration,
		MaxGroupSize: req.MaxGroupSize,
		Difficulty:   req.Difficulty,
		Price:        req.Price,
		Summary:      req.Summary,
		Description:  req.Description,
		ImageCover:   req.ImageCover,
		StartDates:   req.StartDates,
	})
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"tour": t}, "tour created", nil)
}

func (h *TourHandler) UpdateTour(c *gin.Context) {
	var req tourUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.UpdateTour(c.Request.Context(), c.Param("id"), application.TourInput{
		Name:         req.Name,
		Duration:     req.Duration,
		MaxGroupSize: req.MaxGroupSize,
		Difficulty:   req.Difficulty,
		Price:        req.Price,
		Summary:      req.Summary,
		Description:  req.Description,
		StartDates:   req.StartDates,
	})
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": t}, "tour updated", nil)
}

func (h *TourHandler) DeleteTour(c *gin.Context) {
	if err := h.Svc.DeleteTour(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.NoContent(c)
}

// TourStats aggregates the catalog per difficulty: tour and rating
// counts plus average, minimum and maximum price.
func (h *TourHandler) TourStats(c *gin.Context) {
	stats, err := h.Svc.TourStats(c.Request.Context())
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats}, "tour stats", map[string]any{"results": len(stats)})
}

// MonthlyPlan lists departures per month of the given year, busiest
// month first.
func (h *TourHandler) MonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"year": "must be a four-digit year"})
		return
	}
	plan, err := h.Svc.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan}, "monthly plan", map[string]any{"results": len(plan)})
}

// UploadCover accepts a multipart "image" file and stores it as the tour's
// cover.
func (h *TourHandler) UploadCover(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadCover(c.Request.Context(), c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"imageCover": url}, "cover uploaded", nil)
}

// SearchTours runs a full-text search against the search index.
func (h *TourHandler) SearchTours(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.SearchTours(c.Request.Context(), q, size)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tours": hits}, "search results", map[string]any{"results": len(hits)})
}
