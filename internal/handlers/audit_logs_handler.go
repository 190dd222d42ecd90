package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AuditLogStore interface {
	ListAuditLogs(ctx context.Context, f repository.AuditFilter) ([]models.AuditLog, error)
}

type AuditLogsHandler struct {
	store AuditLogStore
}

func NewAuditLogsHandler(store AuditLogStore) *AuditLogsHandler {
	return &AuditLogsHandler{store: store}
}

// List returns the newest entries first: ?action= filters, ?limit= caps (max 200).
func (h *AuditLogsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.store.ListAuditLogs(c.Request.Context(), repository.AuditFilter{
		Action: c.Query("action"),
		Limit:  limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, logs)
}
