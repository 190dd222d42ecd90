package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BarberStore interface {
	ListBarbers(ctx context.Context) ([]models.Barber, error)
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	GetBarberByUserID(ctx context.Context, userID uint) (*models.Barber, error)
	CreateBarber(ctx context.Context, b *models.Barber) error
	UpdateBarber(ctx context.Context, b *models.Barber) error
	DeleteBarber(ctx context.Context, id uint) error
	SetBarberAvailability(ctx context.Context, id uint, available bool) error
	SetBarberAvatar(ctx context.Context, id uint, url string) error
}

// AvatarUploader stores a processed barber photo and returns its URL.
type AvatarUploader interface {
	Upload(ctx context.Context, barberID uint, r io.Reader) (string, error)
}

type BarberHandler struct {
	store   BarberStore
	avatars AvatarUploader
	audit   *audit.Dispatcher
}

func NewBarberHandler(store BarberStore, avatars AvatarUploader, audit *audit.Dispatcher) *BarberHandler {
	return &BarberHandler{store: store, avatars: avatars, audit: audit}
}

// --------- Requests ---------

type CreateBarberRequest struct {
	Name        string `json:"name" binding:"required"`
	Specialty   string `json:"specialty"`
	IsAvailable *bool  `json:"is_available"`
}

type UpdateBarberRequest struct {
	Name        *string `json:"name,omitempty"`
	Specialty   *string `json:"specialty,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// --------- Handlers ---------

// List returns every barber, or only bookable ones with ?available=true.
func (h *BarberHandler) List(c *gin.Context) {
	barbers, err := h.store.ListBarbers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	if strings.EqualFold(c.Query("available"), "true") {
		filtered := make([]models.Barber, 0, len(barbers))
		for _, b := range barbers {
			if b.IsAvailable {
				filtered = append(filtered, b)
			}
		}
		barbers = filtered
	}

	httpresp.List(c, barbers)
}

func (h *BarberHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	barber, err := h.store.GetBarber(c.Request.Context(), id)
	if err != nil {
		writeError(c, notFoundAs(err, domain.ErrBarberNotFound))
		return
	}

	httpresp.OK(c, barber)
}

func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(c, &domain.ValidationError{Fields: []string{"name"}})
		return
	}

	barber := models.Barber{
		Name:        name,
		Specialty:   strings.TrimSpace(req.Specialty),
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}
	if err := h.store.CreateBarber(c.Request.Context(), &barber); err != nil {
		writeError(c, err)
		return
	}

	h.record(c, "barber_created", barber.ID, nil)
	httpresp.Created(c, barber)
}

func (h *BarberHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	barber, err := h.store.GetBarber(ctx, id)
	if err != nil {
		writeError(c, notFoundAs(err, domain.ErrBarberNotFound))
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(c, &domain.ValidationError{Fields: []string{"name"}})
			return
		}
		barber.Name = name
	}
	if req.Specialty != nil {
		barber.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.IsAvailable != nil {
		barber.IsAvailable = *req.IsAvailable
	}

	if err := h.store.UpdateBarber(ctx, barber); err != nil {
		writeError(c, notFoundAs(err, domain.ErrBarberNotFound))
		return
	}

	h.record(c, "barber_updated", barber.ID, nil)
	httpresp.OK(c, barber)
}

func (h *BarberHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteBarber(c.Request.Context(), id); err != nil {
		writeError(c, notFoundAs(err, domain.ErrBarberNotFound))
		return
	}

	h.record(c, "barber_deleted", id, nil)
	httpresp.NoContent(c)
}

// SetAvailability toggles whether a barber takes bookings. Admins may change
// any barber; a barber only their own record.
func (h *BarberHandler) SetAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if !h.canManage(c, id) {
		return
	}

	ctx := c.Request.Context()
	if err := h.store.SetBarberAvailability(ctx, id, *req.IsAvailable); err != nil {
		writeError(c, notFoundAs(err, domain.ErrBarberNotFound))
		return
	}

	h.record(c, "barber_availability_changed", id, map[string]any{"is_available": *req.IsAvailable})

	barber, err := h.store.GetBarber(ctx, id)
	if err != nil {
		writeError(c, notFoundAs(err, domain.ErrBarberNotFound))
		return
	}
	httpresp.OK(c, barber)
}

// UploadAvatar takes a multipart "avatar" file.
func (h *BarberHandler) UploadAvatar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if h.avatars == nil {
		httperr.Unavailable(c, "uploads_disabled", "Avatar uploads are not configured.")
		return
	}

	if !h.canManage(c, id) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetBarber(ctx, id); err != nil {
		writeError(c, notFoundAs(err, domain.ErrBarberNotFound))
		return
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Attach the image as the \"avatar\" form field.")
		return
	}
	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Could not read the uploaded file.")
		return
	}
	defer f.Close()

	url, err := h.avatars.Upload(ctx, id, f)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.store.SetBarberAvatar(ctx, id, url); err != nil {
		writeError(c, notFoundAs(err, domain.ErrBarberNotFound))
		return
	}

	h.record(c, "barber_avatar_uploaded", id, map[string]any{"url": url})
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

// canManage writes a 403 unless the caller is an admin or the barber linked
// to barberID.
func (h *BarberHandler) canManage(c *gin.Context, barberID uint) bool {
	if middleware.CurrentRole(c) == auth.RoleAdmin {
		return true
	}

	own, err := h.store.GetBarberByUserID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		writeError(c, err)
		return false
	}
	if err != nil || own.ID != barberID {
		writeError(c, domain.ErrForbidden)
		return false
	}
	return true
}

func (h *BarberHandler) record(c *gin.Context, action string, barberID uint, meta any) {
	userID := middleware.CurrentUserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "barber",
		EntityID: &barberID,
		Metadata: meta,
	})
}
