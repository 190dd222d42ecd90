package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BarberLookup interface {
	GetBarberByUserID(ctx context.Context, userID uint) (*models.Barber, error)
}

type MeHandler struct {
	auth    AuthService
	barbers BarberLookup
}

func NewMeHandler(svc AuthService, barbers BarberLookup) *MeHandler {
	return &MeHandler{auth: svc, barbers: barbers}
}

// GetMe returns the session user and, for barbers, the linked staff record.
func (h *MeHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.auth.Me(ctx, middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{"user": userView(user)}

	if auth.Role(user.Role) == auth.RoleBarber {
		barber, err := h.barbers.GetBarberByUserID(ctx, user.ID)
		switch {
		case err == nil:
			resp["barber"] = barber
		case !errors.Is(err, domain.ErrNotFound):
			writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
