package booking

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Schedule is the weekly slot template, indexed by time.Weekday (0 = Sunday).
type Schedule [7][]string

// WorkingDay describes how the slots of one weekday are generated.
type WorkingDay struct {
	Weekday     time.Weekday
	Active      bool
	StartTime   string
	EndTime     string
	LunchStart  string
	LunchEnd    string
	SlotMinutes int
}

// SlotsForWeekday returns a copy of the labels for weekday index i.
// Indices outside 0..6 yield an empty list.
func (s Schedule) SlotsForWeekday(i int) []string {
	if i < 0 || i >= len(s) {
		return []string{}
	}
	out := make([]string, len(s[i]))
	copy(out, s[i])
	return out
}

func (s Schedule) SlotsForDate(date time.Time) []string {
	return s.SlotsForWeekday(int(date.Weekday()))
}

// Offers reports whether label is part of the template for date.
func (s Schedule) Offers(date time.Time, label string) bool {
	for _, slot := range s[date.Weekday()] {
		if slot == label {
			return true
		}
	}
	return false
}

// DefaultWorkingDays is the shop template used when none is stored:
// weekdays 09:00-17:30 with a lunch break, a shorter Saturday, Sunday closed.
func DefaultWorkingDays() []WorkingDay {
	days := []WorkingDay{
		{Weekday: time.Sunday},
	}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days = append(days, WorkingDay{
			Weekday:     wd,
			Active:      true,
			StartTime:   "09:00",
			EndTime:     "17:30",
			LunchStart:  "12:30",
			LunchEnd:    "14:00",
			SlotMinutes: 30,
		})
	}
	days = append(days, WorkingDay{
		Weekday:     time.Saturday,
		Active:      true,
		StartTime:   "10:00",
		EndTime:     "14:30",
		LunchStart:  "13:30",
		LunchEnd:    "14:00",
		SlotMinutes: 30,
	})
	return days
}

func DefaultSchedule() Schedule {
	s, err := BuildSchedule(DefaultWorkingDays())
	if err != nil {
		panic(err)
	}
	return s
}

// BuildSchedule generates the template for the given days. Weekdays that are
// not listed stay closed.
func BuildSchedule(days []WorkingDay) (Schedule, error) {
	var s Schedule
	for i := range s {
		s[i] = []string{}
	}

	for _, d := range days {
		if d.Weekday < time.Sunday || d.Weekday > time.Saturday {
			return Schedule{}, fmt.Errorf("weekday %d out of range", d.Weekday)
		}
		slots, err := GenerateSlots(d)
		if err != nil {
			return Schedule{}, fmt.Errorf("weekday %d: %w", d.Weekday, err)
		}
		s[d.Weekday] = slots
	}
	return s, nil
}

// GenerateSlots steps from StartTime by SlotMinutes while the slot still ends
// by EndTime, skipping slots that overlap the lunch break.
func GenerateSlots(d WorkingDay) ([]string, error) {
	if !d.Active {
		return []string{}, nil
	}
	if d.SlotMinutes <= 0 {
		return nil, fmt.Errorf("slot length must be positive")
	}

	dayStart, err := time.Parse(TimeLayout, d.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q", d.StartTime)
	}
	dayEnd, err := time.Parse(TimeLayout, d.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q", d.EndTime)
	}
	if !dayEnd.After(dayStart) {
		return nil, fmt.Errorf("end time must be after start time")
	}

	hasLunch := d.LunchStart != "" && d.LunchEnd != ""
	var lunchStart, lunchEnd time.Time
	if hasLunch {
		if lunchStart, err = time.Parse(TimeLayout, d.LunchStart); err != nil {
			return nil, fmt.Errorf("invalid lunch start %q", d.LunchStart)
		}
		if lunchEnd, err = time.Parse(TimeLayout, d.LunchEnd); err != nil {
			return nil, fmt.Errorf("invalid lunch end %q", d.LunchEnd)
		}
	}

	step := time.Duration(d.SlotMinutes) * time.Minute
	slots := []string{}

	for cur := dayStart; !cur.Add(step).After(dayEnd); cur = cur.Add(step) {
		slotEnd := cur.Add(step)

		// almoço
		if hasLunch && cur.Before(lunchEnd) && slotEnd.After(lunchStart) {
			continue
		}

		slots = append(slots, cur.Format(TimeLayout))
	}

	return slots, nil
}

func WorkingDayFromModel(wh models.WorkingHours) WorkingDay {
	return WorkingDay{
		Weekday:     time.Weekday(wh.Weekday),
		Active:      wh.Active,
		StartTime:   wh.StartTime,
		EndTime:     wh.EndTime,
		LunchStart:  wh.LunchStart,
		LunchEnd:    wh.LunchEnd,
		SlotMinutes: wh.SlotMinutes,
	}
}

// ScheduleFromModels builds the template from stored rows, falling back to
// DefaultSchedule when nothing is stored.
func ScheduleFromModels(rows []models.WorkingHours) (Schedule, error) {
	if len(rows) == 0 {
		return DefaultSchedule(), nil
	}
	days := make([]WorkingDay, 0, len(rows))
	for _, wh := range rows {
		days = append(days, WorkingDayFromModel(wh))
	}
	return BuildSchedule(days)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
