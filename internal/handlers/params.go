package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// paramID reads a positive id path parameter, writing a 400 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}

func actorFrom(c *gin.Context) ucBooking.Actor {
	return ucBooking.Actor{
		UserID: middleware.CurrentUserID(c),
		Role:   middleware.CurrentRole(c),
	}
}
