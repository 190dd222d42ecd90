package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type AvailabilityQuery interface {
	Execute(ctx context.Context, in ucBooking.AvailabilityInput) ([]string, error)
}

type BookingCreator interface {
	SubmitFor(userID uint) domain.SubmitFunc
}

type StatusChanger interface {
	Execute(ctx context.Context, actor ucBooking.Actor, bookingID uint, status string) (*models.Booking, error)
}

type BookingLister interface {
	Execute(ctx context.Context, actor ucBooking.Actor, in ucBooking.ListFilter) ([]dto.BookingListDTO, error)
}

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability AvailabilityQuery
	create       BookingCreator
	changeStatus StatusChanger
	list         BookingLister
}

func NewBookingHandler(
	availability AvailabilityQuery,
	create BookingCreator,
	changeStatus StatusChanger,
	list BookingLister,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		create:       create,
		changeStatus: changeStatus,
		list:         list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// barberParam accepts "any", a numeric id, or an id string.
type barberParam string

func (p *barberParam) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*p = barberParam(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = barberParam(s)
	return nil
}

type CreateBookingRequest struct {
	ServiceID uint        `json:"service_id"`
	Barber    barberParam `json:"barber"`
	Date      string      `json:"date"`
	Time      string      `json:"time"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// AVAILABILITY
// ======================================================

// Availability lists open slots: GET ?date=YYYY-MM-DD&barber=any|<id>.
func (h *BookingHandler) Availability(c *gin.Context) {
	in := ucBooking.AvailabilityInput{
		Date:   c.Query("date"),
		Barber: c.DefaultQuery("barber", domain.AnyBarberLabel),
	}

	slots, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   in.Date,
		"barber": strings.ToLower(in.Barber),
		"slots":  slots,
	})
}

// ======================================================
// CREATE
// ======================================================

// Create runs a booking wizard over the submitted selections and commits it.
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sel, err := domain.ParseSelector(string(req.Barber))
	if err != nil {
		writeError(c, err)
		return
	}

	d := domain.Draft{ServiceID: req.ServiceID, Barber: sel, Date: req.Date, Time: req.Time}
	if err := d.Validate(); err != nil {
		writeError(c, err)
		return
	}

	w := domain.NewWizard()
	steps := []func() error{
		func() error { return w.ChooseService(d.ServiceID, d.Barber) },
		w.Next,
		func() error { return w.ChooseSlot(d.Date, d.Time) },
		w.Next,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			writeError(c, err)
			return
		}
	}

	b, err := w.Submit(c.Request.Context(), h.create.SubmitFor(middleware.CurrentUserID(c)))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// LIST
// ======================================================

// List returns the caller's bookings: their own for customers, their
// schedule for barbers, everything for admins (?barber_id= narrows).
func (h *BookingHandler) List(c *gin.Context) {
	filter := ucBooking.ListFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	}
	if raw := c.Query("barber_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(c, &domain.ValidationError{Fields: []string{"barber_id"}})
			return
		}
		filter.BarberID = uint(id)
	}

	bookings, err := h.list.Execute(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, bookings)
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.setStatus(c, req.Status)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.setStatus(c, string(domain.StatusCancelled))
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.setStatus(c, string(domain.StatusCompleted))
}

func (h *BookingHandler) setStatus(c *gin.Context, status string) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.changeStatus.Execute(c.Request.Context(), actorFrom(c), id, status)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, b)
}
