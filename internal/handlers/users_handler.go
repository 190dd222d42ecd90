package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateBarberAccount(ctx context.Context, barberID uint, u *models.User) error
}

type UsersHandler struct {
	store UserStore
	audit *audit.Dispatcher
}

func NewUsersHandler(store UserStore, audit *audit.Dispatcher) *UsersHandler {
	return &UsersHandler{store: store, audit: audit}
}

type CreateBarberAccountRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	views := make([]map[string]any, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	httpresp.List(c, views)
}

// CreateBarberAccount gives a barber record a login with the barber role.
func (h *UsersHandler) CreateBarberAccount(c *gin.Context) {
	barberID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateBarberAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := auth.NewStaffUser(auth.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, auth.RoleBarber)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.store.CreateBarberAccount(c.Request.Context(), barberID, user); err != nil {
		writeError(c, notFoundAs(err, domain.ErrBarberNotFound))
		return
	}

	adminID := middleware.CurrentUserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "barber_account_created",
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: map[string]any{"user_id": user.ID},
	})

	httpresp.Created(c, userView(user))
}
