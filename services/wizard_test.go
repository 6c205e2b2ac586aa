package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizard_NavigationClamps(t *testing.T) {
	w := &Wizard{Step: StepFlight}

	w.Previous()
	assert.Equal(t, StepFlight, w.Step)

	for i := 0; i < 10; i++ {
		w.Next()
	}
	assert.Equal(t, StepSummary, w.Step)
}

func TestWizard_Jump(t *testing.T) {
	w := &Wizard{Step: StepActivity}

	require.NoError(t, w.Jump(StepFlight))
	assert.Equal(t, StepFlight, w.Step)

	// Forward jumps past the current step are refused.
	assert.Error(t, w.Jump(StepHotel))
	assert.Equal(t, StepFlight, w.Step)

	assert.Error(t, w.Jump(0))
	assert.Error(t, w.Jump(StepSummary+1))
}

func TestWizard_SelectionToggles(t *testing.T) {
	w := &Wizard{Step: StepFlight}
	flight := &Flight{FlightID: 7, Destination: "Paris", Price: 450, Stock: 2}

	require.NoError(t, w.SelectFlight(flight))
	assert.Equal(t, 7, w.SelectedFlight.FlightID)

	// Selecting the same flight again clears it.
	require.NoError(t, w.SelectFlight(flight))
	assert.Nil(t, w.SelectedFlight)

	// Selecting a different flight replaces the old one.
	require.NoError(t, w.SelectFlight(flight))
	other := &Flight{FlightID: 8, Destination: "Paris", Price: 300, Stock: 1}
	require.NoError(t, w.SelectFlight(other))
	assert.Equal(t, 8, w.SelectedFlight.FlightID)
}

func TestWizard_OutOfStockRejected(t *testing.T) {
	w := &Wizard{Step: StepFlight}
	err := w.SelectFlight(&Flight{FlightID: 1, Stock: 0})
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Nil(t, w.SelectedFlight)
}

func TestWizard_DeselectWorksAfterSellout(t *testing.T) {
	w := &Wizard{Step: StepFlight}
	require.NoError(t, w.SelectFlight(&Flight{FlightID: 1, Destination: "Paris", Stock: 1}))

	// The last seat went to someone else; re-clicking must still clear the
	// selection rather than complain about stock.
	require.NoError(t, w.SelectFlight(&Flight{FlightID: 1, Destination: "Paris", Stock: 0}))
	assert.Nil(t, w.SelectedFlight)

	require.NoError(t, w.SelectHotel(&Hotel{HotelID: 2, City: "Paris", Stock: 1}))
	require.NoError(t, w.SelectHotel(&Hotel{HotelID: 2, City: "Paris", Stock: 0}))
	assert.Nil(t, w.SelectedHotel)

	require.NoError(t, w.SelectActivity(&Activity{ActivityID: 3, Stock: 1}))
	require.NoError(t, w.SelectActivity(&Activity{ActivityID: 3, Stock: 0}))
	assert.Nil(t, w.SelectedActivity)
}

func TestWizard_ChangingFlightClearsMismatchedDownstream(t *testing.T) {
	w := &Wizard{Step: StepFlight}
	require.NoError(t, w.SelectFlight(&Flight{FlightID: 1, Destination: "Paris", Stock: 1}))
	require.NoError(t, w.SelectHotel(&Hotel{HotelID: 2, City: "Paris", Stock: 1}))
	require.NoError(t, w.SelectActivity(&Activity{ActivityID: 3, Location: "Paris", Stock: 1}))

	// New destination invalidates the Paris hotel and activity.
	require.NoError(t, w.SelectFlight(&Flight{FlightID: 4, Destination: "Rome", Stock: 1}))
	assert.Nil(t, w.SelectedHotel)
	assert.Nil(t, w.SelectedActivity)
}

func TestWizard_ChangingHotelClearsMismatchedActivity(t *testing.T) {
	w := &Wizard{Step: StepHotel}
	require.NoError(t, w.SelectHotel(&Hotel{HotelID: 1, City: "Paris", Stock: 1}))
	require.NoError(t, w.SelectActivity(&Activity{ActivityID: 2, Location: "Paris", Stock: 1}))

	require.NoError(t, w.SelectHotel(&Hotel{HotelID: 3, City: "Rome", Stock: 1}))
	assert.Nil(t, w.SelectedActivity)
}

func TestWizard_TotalPrice(t *testing.T) {
	w := &Wizard{}
	assert.Zero(t, w.TotalPrice())
	assert.False(t, w.HasSelection())

	w.SelectedFlight = &Flight{Price: 450}
	w.SelectedHotel = &Hotel{PricePerNight: 200}
	w.SelectedActivity = &Activity{Price: 50}

	// 450 + 200*3 nights + 50
	assert.Equal(t, 1100.0, w.TotalPrice())
	assert.True(t, w.HasSelection())
}

func TestWizard_PrefillContact(t *testing.T) {
	w := &Wizard{}
	user := &Customer{Name: "Alice", Email: "alice@example.com", Phone: "555"}
	draft := &BookingDraft{Name: "Bob", Email: "bob@example.com"}

	// Profile wins over the draft.
	w.PrefillContact(user, draft)
	assert.Equal(t, "alice@example.com", w.Contact.Email)

	// Already-filled contact is left alone.
	w.PrefillContact(nil, draft)
	assert.Equal(t, "Alice", w.Contact.Name)

	anon := &Wizard{}
	anon.PrefillContact(nil, draft)
	assert.Equal(t, "bob@example.com", anon.Contact.Email)
}

func TestWizardService_Lifecycle(t *testing.T) {
	store := newMemoryStore()
	svc := NewWizardService(nil, store)
	ctx := context.Background()

	w, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, StepFlight, w.Step)

	w.Next()
	require.NoError(t, svc.Save(ctx, w))

	loaded, err := svc.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, StepHotel, loaded.Step)

	require.NoError(t, svc.Delete(ctx, w.ID))
	_, err = svc.Get(ctx, w.ID)
	assert.ErrorIs(t, err, ErrWizardNotFound)
}

func TestWizardService_SessionExpiry(t *testing.T) {
	store := newMemoryStore()
	svc := NewWizardService(nil, store)
	ctx := context.Background()

	w, err := svc.Create(ctx)
	require.NoError(t, err)

	store.advance(25 * time.Hour)
	_, err = svc.Get(ctx, w.ID)
	assert.ErrorIs(t, err, ErrWizardNotFound)
}
