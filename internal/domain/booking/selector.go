package booking

import (
	"strconv"
	"strings"
)

const AnyBarberLabel = "any"

// Selector is the customer's barber choice: one barber, or any available one.
type Selector struct {
	barberID uint
	any      bool
}

func AnyBarber() Selector {
	return Selector{any: true}
}

func SpecificBarber(id uint) Selector {
	return Selector{barberID: id}
}

// ParseSelector accepts "any" or a positive barber id. The empty string is
// the zero Selector (nothing chosen yet).
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return Selector{}, nil
	case AnyBarberLabel:
		return AnyBarber(), nil
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return Selector{}, &ValidationError{Fields: []string{"barber"}}
	}
	return SpecificBarber(uint(id)), nil
}

func (s Selector) IsAny() bool { return s.any }

func (s Selector) IsZero() bool { return !s.any && s.barberID == 0 }

func (s Selector) BarberID() uint { return s.barberID }

func (s Selector) String() string {
	if s.any {
		return AnyBarberLabel
	}
	if s.barberID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(s.barberID), 10)
}
