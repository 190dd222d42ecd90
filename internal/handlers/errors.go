package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// businessStatus maps business codes to HTTP statuses. Codes not listed are
// plain 400s.
var businessStatus = map[string]int{
	"slot_taken":           http.StatusConflict,
	"no_barber_available":  http.StatusConflict,
	"email_already_exists": http.StatusConflict,
	"barber_account_taken": http.StatusConflict,
	"service_in_use":       http.StatusConflict,
	"barber_in_use":        http.StatusConflict,

	"booking_not_found": http.StatusNotFound,
	"service_not_found": http.StatusNotFound,
	"barber_not_found":  http.StatusNotFound,
	"user_not_found":    http.StatusNotFound,

	"forbidden":          http.StatusForbidden,
	"email_not_verified": http.StatusForbidden,

	"invalid_credentials": http.StatusUnauthorized,
	"token_revoked":       http.StatusUnauthorized,

	"image_too_large": http.StatusRequestEntityTooLarge,
}

var businessMessage = map[string]string{
	"slot_taken":           "This slot was just taken, please pick another time.",
	"no_barber_available":  "No barber is available for this slot.",
	"email_already_exists": "An account with this e-mail already exists.",
	"barber_account_taken": "This barber already has a login.",
	"service_in_use":       "This service has bookings and cannot be deleted.",
	"barber_in_use":        "This barber has bookings; mark them unavailable instead.",
	"booking_not_found":    "Booking not found.",
	"service_not_found":    "Service not found.",
	"barber_not_found":     "Barber not found.",
	"user_not_found":       "User not found.",
	"forbidden":            "You are not allowed to do this.",
	"email_not_verified":   "Please confirm your e-mail before logging in.",
	"invalid_credentials":  "Invalid e-mail or password.",
	"token_revoked":        "Session has been logged out.",
	"invalid_token":        "Invalid or expired token.",
	"invalid_state":        "Only upcoming bookings can change status.",
	"invalid_status":       "Unknown or unsupported status.",
	"invalid_email":        "Invalid e-mail address.",
	"invalid_email_domain": "The e-mail domain does not look valid.",
	"invalid_image":        "Upload a PNG, JPEG or WebP image.",
	"image_too_large":      "Image is too large.",
	"password_too_long":    "Password must be at most 72 bytes.",
}

// writeError is the single place where use-case errors become responses.
func writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		httperr.Validation(c, ve.Fields)
		return
	case errors.Is(err, domain.ErrStoreUnavailable):
		slog.ErrorContext(c.Request.Context(), "store unavailable", "path", c.FullPath(), "err", err)
		httperr.Unavailable(c, "store_unavailable", "Service temporarily unavailable, please retry.")
		return
	case errors.Is(err, domain.ErrNotFound):
		httperr.NotFound(c, "not_found", "Resource not found.")
		return
	}

	code, ok := httperr.CodeOf(err)
	if !ok {
		slog.ErrorContext(c.Request.Context(), "unexpected error", "path", c.FullPath(), "err", err)
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	status, ok := businessStatus[code]
	if !ok {
		status = http.StatusBadRequest
	}
	httperr.Write(c, status, code, businessMessage[code])
}

func bindError(c *gin.Context, err error) {
	httperr.BadRequest(c, "invalid_request", err.Error())
}

func notFoundAs(err, business error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return business
	}
	return err
}
