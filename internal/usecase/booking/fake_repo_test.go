package booking

import (
	"context"
	"sync"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// memRepo is an in-memory domain.Repository that keeps the upcoming-slot
// uniqueness rule of the real store.
type memRepo struct {
	mu sync.Mutex

	services []models.Service
	barbers  []models.Barber
	users    []models.User
	bookings []models.Booking
	hours    []models.WorkingHours

	nextBookingID uint
	failWith      error

	// beforeCreate runs inside CreateBooking, to simulate a racing writer.
	beforeCreate func()
}

func newMemRepo() *memRepo {
	return &memRepo{
		services: []models.Service{
			{ID: 1, Name: "Classic Cut", Price: 25, Duration: 30},
			{ID: 2, Name: "Beard Trim", Price: 15, Duration: 30},
		},
		barbers: []models.Barber{
			{ID: 1, Name: "Alex", IsAvailable: true, UserID: uintPtr(100)},
			{ID: 2, Name: "Bruno", IsAvailable: true, UserID: uintPtr(101)},
		},
		users: []models.User{
			{ID: 100, Name: "Alex", Role: "barber"},
			{ID: 101, Name: "Bruno", Role: "barber"},
			{ID: 200, Name: "Jane", Role: "customer"},
			{ID: 201, Name: "John", Role: "customer"},
			{ID: 300, Name: "Admin", Role: "admin"},
		},
	}
}

func uintPtr(v uint) *uint { return &v }

func (m *memRepo) ListServices(context.Context) ([]models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]models.Service(nil), m.services...), nil
}

func (m *memRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, s := range m.services {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) ListBarbers(context.Context) ([]models.Barber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]models.Barber(nil), m.barbers...), nil
}

func (m *memRepo) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.barbers {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) GetBarberByUserID(_ context.Context, userID uint) (*models.Barber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.barbers {
		if b.UserID != nil && *b.UserID == userID {
			cp := b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) SetBarberAvailability(_ context.Context, id uint, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.barbers {
		if m.barbers[i].ID == id {
			m.barbers[i].IsAvailable = available
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRepo) ListBookings(_ context.Context, f domain.BookingFilter) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.Booking
	for _, b := range m.bookings {
		if f.UserID != 0 && b.UserID != f.UserID {
			continue
		}
		if f.BarberID != 0 && b.BarberID != f.BarberID {
			continue
		}
		if f.Date != "" && b.Date != f.Date {
			continue
		}
		if f.Status != "" && b.Status != string(f.Status) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memRepo) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	if m.beforeCreate != nil {
		m.beforeCreate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.bookings {
		if existing.Status == string(domain.StatusUpcoming) &&
			existing.BarberID == b.BarberID &&
			existing.Date == b.Date &&
			existing.Time == b.Time {
			return domain.ErrSlotTaken
		}
	}
	m.nextBookingID++
	b.ID = m.nextBookingID
	m.bookings = append(m.bookings, *b)
	return nil
}

func (m *memRepo) SetBookingStatus(_ context.Context, id uint, status domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i].Status = string(status)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRepo) ListUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User(nil), m.users...), nil
}

func (m *memRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) ListWorkingHours(context.Context) ([]models.WorkingHours, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]models.WorkingHours(nil), m.hours...), nil
}

// seed inserts a booking directly, bypassing the uniqueness check.
func (m *memRepo) seed(userID, barberID uint, date, slot string, status domain.Status) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBookingID++
	m.bookings = append(m.bookings, models.Booking{
		ID:        m.nextBookingID,
		UserID:    userID,
		ServiceID: 1,
		BarberID:  barberID,
		Date:      date,
		Time:      slot,
		Status:    string(status),
	})
	return m.nextBookingID
}

var _ domain.Repository = (*memRepo)(nil)
