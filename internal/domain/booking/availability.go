package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// AvailableSlots filters allSlots down to the ones still bookable on date.
//
// For a specific barber a slot is dropped once that barber has an upcoming
// booking at it. For "any" a slot stays while fewer upcoming bookings sit on
// it than there are available barbers. Input order is preserved.
func AvailableSlots(
	date time.Time,
	sel Selector,
	allSlots []string,
	bookings []models.Booking,
	barbers []models.Barber,
) []string {

	day := FormatDate(date)
	out := make([]string, 0, len(allSlots))

	if !sel.IsAny() {
		taken := make(map[string]struct{})
		for _, b := range bookings {
			if isUpcoming(b) && b.BarberID == sel.BarberID() && b.Date == day {
				taken[b.Time] = struct{}{}
			}
		}

		for _, slot := range allSlots {
			if _, ok := taken[slot]; !ok {
				out = append(out, slot)
			}
		}
		return out
	}

	available := availableBarberIDs(barbers)

	perSlot := make(map[string]int)
	for _, b := range bookings {
		if _, ok := available[b.BarberID]; !ok {
			continue
		}
		if isUpcoming(b) && b.Date == day {
			perSlot[b.Time]++
		}
	}

	for _, slot := range allSlots {
		if perSlot[slot] < len(available) {
			out = append(out, slot)
		}
	}
	return out
}

// IsSlotOpen re-checks a single slot with the same rules as AvailableSlots.
func IsSlotOpen(
	date time.Time,
	sel Selector,
	slot string,
	bookings []models.Booking,
	barbers []models.Barber,
) bool {
	return len(AvailableSlots(date, sel, []string{slot}, bookings, barbers)) == 1
}

func availableBarberIDs(barbers []models.Barber) map[uint]struct{} {
	ids := make(map[uint]struct{}, len(barbers))
	for _, br := range barbers {
		if br.IsAvailable {
			ids[br.ID] = struct{}{}
		}
	}
	return ids
}
