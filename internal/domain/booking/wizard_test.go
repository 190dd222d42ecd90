package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func confirmingWizard(t *testing.T) *Wizard {
	t.Helper()
	w := NewWizard()
	require.NoError(t, w.ChooseService(3, AnyBarber()))
	require.NoError(t, w.Next())
	require.NoError(t, w.ChooseSlot(tuesday, "09:00"))
	require.NoError(t, w.Next())
	require.Equal(t, StepConfirming, w.Step())
	return w
}

func TestWizardGuards(t *testing.T) {
	w := NewWizard()

	err := w.Next()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"service", "barber"}, ve.Fields)
	assert.Equal(t, StepSelectingService, w.Step())

	require.NoError(t, w.ChooseService(3, Selector{}))
	require.ErrorAs(t, w.Next(), &ve)
	assert.Equal(t, []string{"barber"}, ve.Fields)

	require.NoError(t, w.ChooseService(3, SpecificBarber(2)))
	require.NoError(t, w.Next())
	assert.Equal(t, StepSelectingSlot, w.Step())

	require.NoError(t, w.ChooseSlot(tuesday, ""))
	require.ErrorAs(t, w.Next(), &ve)
	assert.Equal(t, []string{"time"}, ve.Fields)
	assert.Equal(t, StepSelectingSlot, w.Step())
}

func TestWizardChooseSlotRequiresServiceStepDone(t *testing.T) {
	w := NewWizard()
	assert.ErrorIs(t, w.ChooseSlot(tuesday, "09:00"), ErrWrongStep)
}

func TestWizardBackKeepsData(t *testing.T) {
	w := confirmingWizard(t)

	require.NoError(t, w.Back(StepSelectingService))
	assert.Equal(t, StepSelectingService, w.Step())
	assert.Equal(t, Draft{ServiceID: 3, Barber: AnyBarber(), Date: tuesday, Time: "09:00"}, w.Draft())

	assert.ErrorIs(t, w.Back(StepConfirming), ErrWrongStep)
}

func TestWizardSubmitCommits(t *testing.T) {
	w := confirmingWizard(t)

	var got Draft
	b, err := w.Submit(context.Background(), func(_ context.Context, d Draft) (*models.Booking, error) {
		got = d
		return &models.Booking{ID: 10, BarberID: 2, Date: d.Date, Time: d.Time, Status: string(StatusUpcoming)}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, uint(10), b.ID)
	assert.Equal(t, w.Draft(), got)
	assert.Equal(t, StepCommitted, w.Step())
	assert.Same(t, b, w.Booking())

	// Committed wizards stay committed until an explicit reset.
	assert.ErrorIs(t, w.Next(), ErrWrongStep)
	assert.ErrorIs(t, w.Back(StepSelectingService), ErrWrongStep)

	w.Reset()
	assert.Equal(t, StepSelectingService, w.Step())
	assert.Equal(t, Draft{}, w.Draft())
	assert.Nil(t, w.Booking())
}

func TestWizardSubmitSlotTakenReturnsToSlotSelection(t *testing.T) {
	w := confirmingWizard(t)

	_, err := w.Submit(context.Background(), func(context.Context, Draft) (*models.Booking, error) {
		return nil, ErrSlotTaken
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, StepSelectingSlot, w.Step())
	assert.Equal(t, "09:00", w.Draft().Time)
	assert.Nil(t, w.Booking())
}

func TestWizardSubmitOtherFailuresKeepState(t *testing.T) {
	for _, failure := range []error{ErrNoBarberAvailable, ErrStoreUnavailable, errors.New("boom")} {
		w := confirmingWizard(t)
		before := w.Draft()

		_, err := w.Submit(context.Background(), func(context.Context, Draft) (*models.Booking, error) {
			return nil, failure
		})

		assert.ErrorIs(t, err, failure)
		assert.Equal(t, StepConfirming, w.Step())
		assert.Equal(t, before, w.Draft())
		assert.Nil(t, w.Booking())
	}
}

func TestWizardSubmitOutsideConfirming(t *testing.T) {
	w := NewWizard()
	called := false

	_, err := w.Submit(context.Background(), func(context.Context, Draft) (*models.Booking, error) {
		called = true
		return nil, nil
	})

	assert.ErrorIs(t, err, ErrWrongStep)
	assert.False(t, called)
}

func TestDraftValidate(t *testing.T) {
	var ve *ValidationError
	require.ErrorAs(t, Draft{}.Validate(), &ve)
	assert.Equal(t, []string{"service", "barber", "date", "time"}, ve.Fields)

	assert.NoError(t, Draft{ServiceID: 1, Barber: AnyBarber(), Date: tuesday, Time: "09:00"}.Validate())
}
