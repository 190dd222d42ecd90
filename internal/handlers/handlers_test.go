package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// as injects an authenticated caller the way AuthMiddleware does.
func as(userID uint, role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// ======================================================
// Error mapping
// ======================================================

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{&domain.ValidationError{Fields: []string{"date"}}, http.StatusUnprocessableEntity, "validation_error"},
		{domain.ErrSlotTaken, http.StatusConflict, "slot_taken"},
		{fmt.Errorf("wrap: %w", domain.ErrNoBarberAvailable), http.StatusConflict, "no_barber_available"},
		{domain.ErrBookingNotFound, http.StatusNotFound, "booking_not_found"},
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{auth.ErrEmailNotVerified, http.StatusForbidden, "email_not_verified"},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{httperr.ErrBusiness("invalid_state"), http.StatusBadRequest, "invalid_state"},
		{fmt.Errorf("list: %w: timeout", domain.ErrStoreUnavailable), http.StatusServiceUnavailable, "store_unavailable"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { writeError(c, tt.err) })

			w := do(r, http.MethodGet, "/x", nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["error_code"])
		})
	}
}

// ======================================================
// Bookings
// ======================================================

type stubAvailability struct {
	got   ucBooking.AvailabilityInput
	slots []string
	err   error
}

func (s *stubAvailability) Execute(_ context.Context, in ucBooking.AvailabilityInput) ([]string, error) {
	s.got = in
	return s.slots, s.err
}

type stubCreator struct {
	userID uint
	drafts []domain.Draft
	errs   []error
}

func (s *stubCreator) SubmitFor(userID uint) domain.SubmitFunc {
	s.userID = userID
	return func(_ context.Context, d domain.Draft) (*models.Booking, error) {
		s.drafts = append(s.drafts, d)
		if len(s.errs) > 0 {
			err := s.errs[0]
			s.errs = s.errs[1:]
			if err != nil {
				return nil, err
			}
		}
		return &models.Booking{ID: 9, UserID: userID, BarberID: 2, ServiceID: d.ServiceID, Date: d.Date, Time: d.Time, Status: "upcoming"}, nil
	}
}

type stubStatus struct {
	actor  ucBooking.Actor
	id     uint
	status string
	err    error
}

func (s *stubStatus) Execute(_ context.Context, actor ucBooking.Actor, id uint, status string) (*models.Booking, error) {
	s.actor, s.id, s.status = actor, id, status
	if s.err != nil {
		return nil, s.err
	}
	return &models.Booking{ID: id, Status: status}, nil
}

type stubLister struct {
	actor  ucBooking.Actor
	filter ucBooking.ListFilter
	out    []dto.BookingListDTO
}

func (s *stubLister) Execute(_ context.Context, actor ucBooking.Actor, f ucBooking.ListFilter) ([]dto.BookingListDTO, error) {
	s.actor, s.filter = actor, f
	return s.out, nil
}

type bookingFixture struct {
	avail  *stubAvailability
	create *stubCreator
	status *stubStatus
	list   *stubLister
	router *gin.Engine
}

func newBookingFixture(userID uint, role auth.Role) *bookingFixture {
	f := &bookingFixture{
		avail:  &stubAvailability{slots: []string{"09:00", "09:30"}},
		create: &stubCreator{},
		status: &stubStatus{},
		list:   &stubLister{},
	}
	h := NewBookingHandler(f.avail, f.create, f.status, f.list)

	r := gin.New()
	r.GET("/availability", h.Availability)
	authed := r.Group("/", as(userID, role))
	authed.POST("/bookings", h.Create)
	authed.GET("/bookings", h.List)
	authed.PATCH("/bookings/:id/cancel", h.Cancel)
	authed.PATCH("/bookings/:id/status", h.UpdateStatus)
	f.router = r
	return f
}

func TestAvailabilityDefaultsToAnyBarber(t *testing.T) {
	f := newBookingFixture(0, "")

	w := do(f.router, http.MethodGet, "/availability?date=2026-10-20", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "any", f.avail.got.Barber)
	assert.JSONEq(t, `{"date":"2026-10-20","barber":"any","slots":["09:00","09:30"]}`, w.Body.String())
}

func TestAvailabilityValidationError(t *testing.T) {
	f := newBookingFixture(0, "")
	f.avail.err = &domain.ValidationError{Fields: []string{"date"}}

	w := do(f.router, http.MethodGet, "/availability?barber=1", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []any{"date"}, decode(t, w)["fields"])
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(200, auth.RoleCustomer)

	w := do(f.router, http.MethodPost, "/bookings", `{"service_id":1,"barber":"any","date":"2026-10-20","time":"09:00"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, uint(200), f.create.userID)
	require.Len(t, f.create.drafts, 1)
	assert.True(t, f.create.drafts[0].Barber.IsAny())
	assert.Equal(t, "upcoming", decode(t, w)["status"])
}

func TestCreateBookingAcceptsNumericBarber(t *testing.T) {
	f := newBookingFixture(200, auth.RoleCustomer)

	w := do(f.router, http.MethodPost, "/bookings", `{"service_id":1,"barber":2,"date":"2026-10-20","time":"09:00"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, uint(2), f.create.drafts[0].Barber.BarberID())
}

func TestCreateBookingReportsAllMissingFields(t *testing.T) {
	f := newBookingFixture(200, auth.RoleCustomer)

	w := do(f.router, http.MethodPost, "/bookings", `{"date":"2026-10-20"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []any{"service", "barber", "time"}, decode(t, w)["fields"])
	assert.Empty(t, f.create.drafts)
}

func TestCreateBookingBadSelector(t *testing.T) {
	f := newBookingFixture(200, auth.RoleCustomer)

	w := do(f.router, http.MethodPost, "/bookings", `{"service_id":1,"barber":"someone","date":"2026-10-20","time":"09:00"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []any{"barber"}, decode(t, w)["fields"])
}

func TestCreateBookingConflicts(t *testing.T) {
	for _, err := range []error{domain.ErrSlotTaken, domain.ErrNoBarberAvailable} {
		f := newBookingFixture(200, auth.RoleCustomer)
		f.create.errs = []error{err}

		w := do(f.router, http.MethodPost, "/bookings", `{"service_id":1,"barber":"1","date":"2026-10-20","time":"09:00"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, err.Error(), decode(t, w)["error_code"])
	}
}

func TestListBookingsPassesActorAndFilters(t *testing.T) {
	f := newBookingFixture(300, auth.RoleAdmin)
	f.list.out = []dto.BookingListDTO{{ID: 1, Date: "2026-10-20", Time: "09:00"}}

	w := do(f.router, http.MethodGet, "/bookings?date=2026-10-20&status=upcoming&barber_id=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ucBooking.Actor{UserID: 300, Role: auth.RoleAdmin}, f.list.actor)
	assert.Equal(t, ucBooking.ListFilter{Date: "2026-10-20", Status: "upcoming", BarberID: 2}, f.list.filter)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = do(f.router, http.MethodGet, "/bookings?barber_id=abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCancelAndUpdateStatus(t *testing.T) {
	f := newBookingFixture(100, auth.RoleBarber)

	w := do(f.router, http.MethodPatch, "/bookings/5/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(5), f.status.id)
	assert.Equal(t, "cancelled", f.status.status)
	assert.Equal(t, auth.RoleBarber, f.status.actor.Role)

	w = do(f.router, http.MethodPatch, "/bookings/5/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", f.status.status)

	w = do(f.router, http.MethodPatch, "/bookings/x/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", decode(t, w)["error_code"])

	f.status.err = httperr.ErrBusiness("invalid_state")
	w = do(f.router, http.MethodPatch, "/bookings/5/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", decode(t, w)["error_code"])
}
