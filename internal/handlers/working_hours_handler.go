package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type WorkingHoursStore interface {
	ListWorkingHours(ctx context.Context) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, hours []models.WorkingHours) error
}

type WorkingHoursHandler struct {
	store WorkingHoursStore
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(store WorkingHoursStore, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{store: store, audit: audit}
}

type WorkingDayConfig struct {
	Weekday     *int   `json:"weekday" binding:"required,min=0,max=6"`
	Active      bool   `json:"active"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	LunchStart  string `json:"lunch_start"`
	LunchEnd    string `json:"lunch_end"`
	SlotMinutes int    `json:"slot_minutes"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

type workingDayView struct {
	models.WorkingHours
	Slots []string `json:"slots"`
}

// Get returns the weekly template with the slots each day produces. When
// nothing is stored the built-in default is shown.
func (h *WorkingHoursHandler) Get(c *gin.Context) {
	rows, err := h.store.ListWorkingHours(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	isDefault := len(rows) == 0
	if isDefault {
		for _, d := range domain.DefaultWorkingDays() {
			rows = append(rows, toModel(d))
		}
	}

	schedule, err := domain.ScheduleFromModels(rows)
	if err != nil {
		writeError(c, err)
		return
	}

	days := make([]workingDayView, 0, len(rows))
	for _, wh := range rows {
		days = append(days, workingDayView{
			WorkingHours: wh,
			Slots:        schedule.SlotsForWeekday(wh.Weekday),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"default": isDefault,
		"days":    days,
	})
}

// Update replaces the whole weekly template. Weekdays left out are stored
// closed.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// every weekday gets a row so an empty template means closed, not default
	var week [7]domain.WorkingDay
	for i := range week {
		week[i] = domain.WorkingDay{Weekday: time.Weekday(i), SlotMinutes: 30}
	}

	seen := map[int]bool{}
	for _, d := range req.Days {
		if seen[*d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", fmt.Sprintf("Weekday %d is listed twice.", *d.Weekday))
			return
		}
		seen[*d.Weekday] = true

		step := d.SlotMinutes
		if step == 0 {
			step = 30
		}
		week[*d.Weekday] = domain.WorkingDay{
			Weekday:     time.Weekday(*d.Weekday),
			Active:      d.Active,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			LunchStart:  d.LunchStart,
			LunchEnd:    d.LunchEnd,
			SlotMinutes: step,
		}
	}
	days := week[:]

	if _, err := domain.BuildSchedule(days); err != nil {
		httperr.BadRequest(c, "invalid_working_hours", err.Error())
		return
	}

	rows := make([]models.WorkingHours, 0, len(days))
	for _, d := range days {
		rows = append(rows, toModel(d))
	}

	if err := h.store.ReplaceWorkingHours(c.Request.Context(), rows); err != nil {
		writeError(c, err)
		return
	}

	userID := middleware.CurrentUserID(c)
	h.audit.Dispatch(audit.Event{
		UserID: &userID,
		Action: "working_hours_updated",
		Entity: "working_hours",
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func toModel(d domain.WorkingDay) models.WorkingHours {
	return models.WorkingHours{
		Weekday:     int(d.Weekday),
		Active:      d.Active,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		LunchStart:  d.LunchStart,
		LunchEnd:    d.LunchEnd,
		SlotMinutes: d.SlotMinutes,
	}
}
