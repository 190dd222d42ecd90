package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// AuthService is the part of *auth.Service used over HTTP.
type AuthService interface {
	Signup(ctx context.Context, in auth.SignupInput) (*models.User, error)
	Confirm(ctx context.Context, token string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID uint) (*models.User, error)
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ConfirmRequest struct {
	Token string `json:"token" form:"token" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), auth.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    userView(user),
		"message": "Check your inbox to confirm your e-mail.",
	})
}

// Confirm accepts the token as a query parameter (link) or JSON body.
func (h *AuthHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.auth.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       userView(session.User),
		"token":      session.Token,
		"expires_at": session.Claims.ExpiresAt.Time,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		httperr.Unauthorized(c, "user_not_in_context", "Not logged in.")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"role":        u.Role,
		"is_verified": u.IsVerified,
	}
}
