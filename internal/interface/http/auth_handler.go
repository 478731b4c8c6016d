package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tourhub/tourhub-api/internal/application"
	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/pkg/apperror"
	"github.com/tourhub/tourhub-api/pkg/helpers"
	"github.com/tourhub/tourhub-api/pkg/response"
	"github.com/tourhub/tourhub-api/pkg/validation"
)

type AuthHandler struct {
	Svc      *application.AuthService
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
	Renderer apperror.Renderer
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookies *helpers.Manager, renderer apperror.Renderer) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies, Renderer: renderer}
}

type signupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" binding:"required"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

// sendToken issues a token for the user, mirrors it in the cookie and
// writes the success envelope with the user attached.
func (h *AuthHandler) sendToken(c *gin.Context, u *entity.User, status int, message string) {
	token, exp, err := h.Svc.IssueToken(u)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	h.Cookies.Set(c, token)
	response.Success(c, status, gin.H{"token": token, "user": u}, message, map[string]any{"expires_at": exp})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	h.sendToken(c, u, http.StatusCreated, "signup successful")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	h.sendToken(c, u, http.StatusOK, "login successful")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Token sent to email!", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	h.sendToken(c, u, http.StatusOK, "password reset successful")
}

// UpdateMyPassword rotates the password of the logged-in user and issues a
// fresh token, since the old one goes stale the moment the change lands.
func (h *AuthHandler) UpdateMyPassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	u, err := h.Svc.UpdatePassword(c.Request.Context(), uid, req.PasswordCurrent, req.Password)
	if err != nil {
		respondErr(c, h.Renderer, err)
		return
	}
	h.sendToken(c, u, http.StatusOK, "password updated")
}
