package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ServiceStore interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	UpdateService(ctx context.Context, s *models.Service) error
	DeleteService(ctx context.Context, id uint) error
}

type ServiceHandler struct {
	store ServiceStore
}

func NewServiceHandler(store ServiceStore) *ServiceHandler {
	return &ServiceHandler{store: store}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name     string   `json:"name" binding:"required"`
	Price    *float64 `json:"price" binding:"required,gte=0"`
	Duration int      `json:"duration" binding:"required,min=1"`
}

type UpdateServiceRequest struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	Duration *int     `json:"duration,omitempty" binding:"omitempty,min=1"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	services, err := h.store.ListServices(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(c, &domain.ValidationError{Fields: []string{"name"}})
		return
	}

	service := models.Service{
		Name:     name,
		Price:    *req.Price,
		Duration: req.Duration,
	}
	if err := h.store.CreateService(c.Request.Context(), &service); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	service, err := h.store.GetService(ctx, id)
	if err != nil {
		writeError(c, notFoundAs(err, domain.ErrServiceNotFound))
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(c, &domain.ValidationError{Fields: []string{"name"}})
			return
		}
		service.Name = name
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Duration != nil {
		service.Duration = *req.Duration
	}

	if err := h.store.UpdateService(ctx, service); err != nil {
		writeError(c, notFoundAs(err, domain.ErrServiceNotFound))
		return
	}

	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteService(c.Request.Context(), id); err != nil {
		writeError(c, notFoundAs(err, domain.ErrServiceNotFound))
		return
	}

	httpresp.NoContent(c)
}
