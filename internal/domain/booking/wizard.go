package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Step is a state of the booking wizard.
type Step int

const (
	StepSelectingService Step = iota
	StepSelectingSlot
	StepConfirming
	StepCommitted
)

func (s Step) String() string {
	switch s {
	case StepSelectingService:
		return "selecting_service"
	case StepSelectingSlot:
		return "selecting_slot"
	case StepConfirming:
		return "confirming"
	case StepCommitted:
		return "committed"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Draft holds the selections made so far.
type Draft struct {
	ServiceID uint
	Barber    Selector
	Date      string
	Time      string
}

func (d Draft) missingServiceStep() []string {
	var fields []string
	if d.ServiceID == 0 {
		fields = append(fields, "service")
	}
	if d.Barber.IsZero() {
		fields = append(fields, "barber")
	}
	return fields
}

func (d Draft) missingSlotStep() []string {
	var fields []string
	if strings.TrimSpace(d.Date) == "" {
		fields = append(fields, "date")
	}
	if strings.TrimSpace(d.Time) == "" {
		fields = append(fields, "time")
	}
	return fields
}

// Validate reports every required field that is still empty.
func (d Draft) Validate() error {
	fields := append(d.missingServiceStep(), d.missingSlotStep()...)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// SubmitFunc commits a complete draft, typically through the create use case.
type SubmitFunc func(ctx context.Context, d Draft) (*models.Booking, error)

var ErrWrongStep = errors.New("booking wizard: action not allowed in current step")

// Wizard drives a single booking attempt. It is not safe for concurrent use.
type Wizard struct {
	step    Step
	draft   Draft
	booking *models.Booking
}

func NewWizard() *Wizard {
	return &Wizard{step: StepSelectingService}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Draft() Draft { return w.draft }

// Booking is the committed booking, nil before a successful Submit.
func (w *Wizard) Booking() *models.Booking { return w.booking }

func (w *Wizard) ChooseService(serviceID uint, sel Selector) error {
	if w.step == StepCommitted {
		return ErrWrongStep
	}
	w.draft.ServiceID = serviceID
	w.draft.Barber = sel
	return nil
}

func (w *Wizard) ChooseSlot(date, slot string) error {
	if w.step == StepCommitted || w.step == StepSelectingService {
		return ErrWrongStep
	}
	w.draft.Date = date
	w.draft.Time = slot
	return nil
}

// Next advances one step when the current step's fields are filled.
func (w *Wizard) Next() error {
	switch w.step {
	case StepSelectingService:
		if fields := w.draft.missingServiceStep(); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		w.step = StepSelectingSlot
	case StepSelectingSlot:
		if fields := w.draft.missingSlotStep(); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		w.step = StepConfirming
	default:
		return ErrWrongStep
	}
	return nil
}

// Back returns to an earlier step without discarding selections.
func (w *Wizard) Back(to Step) error {
	if w.step == StepCommitted || to >= w.step || to < StepSelectingService {
		return ErrWrongStep
	}
	w.step = to
	return nil
}

// Submit commits the draft. A taken slot sends the wizard back to slot
// selection; any other failure leaves it untouched.
func (w *Wizard) Submit(ctx context.Context, submit SubmitFunc) (*models.Booking, error) {
	if w.step != StepConfirming {
		return nil, ErrWrongStep
	}
	if err := w.draft.Validate(); err != nil {
		return nil, err
	}

	b, err := submit(ctx, w.draft)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			w.step = StepSelectingSlot
		}
		return nil, err
	}

	w.booking = b
	w.step = StepCommitted
	return b, nil
}

func (w *Wizard) Reset() {
	*w = Wizard{step: StepSelectingService}
}
