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

type UserHandler struct {
	Svc      *application.AuthService
	Logger   *logrus.Logger
	Renderer apperror.Renderer
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger, renderer apperror.Renderer) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Renderer: renderer}
}

type updateMeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

func (h *UserHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "profile", nil)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	u, err := h.Svc.UpdateMe(c.Request.Context(), uid, application.UpdateMeInput{Name: req.Name, Email: req.Email})
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "profile updated", nil)
}

// DeleteMe soft-deletes: the account is deactivated, not removed.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.DeactivateMe(c.Request.Context(), uid); err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.NoContent(c)
}

// ListUsers is the admin listing with full filter/sort/select/paginate
// support from the query string.
func (h *UserHandler) ListUsers(c *gin.Context) {
	d := query.Parse(c.Request.URL.Query())
	users, err := h.Svc.ListUsers(c.Request.Context(), d)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users}, "users", map[string]any{"results": len(users)})
}
