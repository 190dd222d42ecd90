package booking

import (
	"math/rand/v2"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Resolver turns a Selector into a concrete barber at commit time.
type Resolver struct {
	intN func(n int) int
}

// NewResolver picks among free barbers with intN; nil uses the global
// math/rand/v2 source. Tests pass a seeded generator's IntN.
func NewResolver(intN func(n int) int) *Resolver {
	if intN == nil {
		intN = rand.IntN
	}
	return &Resolver{intN: intN}
}

// ResolveBarber returns a specific selection unchecked. For "any" it picks
// uniformly among available barbers with no upcoming booking at (date, slot).
func (r *Resolver) ResolveBarber(
	sel Selector,
	date time.Time,
	slot string,
	barbers []models.Barber,
	bookings []models.Booking,
) (uint, error) {

	if !sel.IsAny() {
		return sel.BarberID(), nil
	}

	day := FormatDate(date)
	busy := make(map[uint]struct{})
	for _, b := range bookings {
		if isUpcoming(b) && b.Date == day && b.Time == slot {
			busy[b.BarberID] = struct{}{}
		}
	}

	free := make([]uint, 0, len(barbers))
	for _, br := range barbers {
		if !br.IsAvailable {
			continue
		}
		if _, ok := busy[br.ID]; ok {
			continue
		}
		free = append(free, br.ID)
	}

	if len(free) == 0 {
		return 0, ErrNoBarberAvailable
	}

	return free[r.intN(len(free))], nil
}
