package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Wizard steps, in order. Navigation clamps to this range.
const (
	StepFlight   = 1
	StepHotel    = 2
	StepActivity = 3
	StepSummary  = 4
)

// HotelNights is the fixed stay length used in package totals. Product has
// flagged this as a likely oversimplification; keep it in one place.
const HotelNights = 3

const wizardTTL = 24 * time.Hour

var (
	ErrWizardNotFound = errors.New("wizard session not found")
	ErrOutOfStock     = errors.New("product is out of stock")
)

// Wizard is one user's in-progress package build. It lives server-side in
// the store, keyed by ID, and holds at most one selection per category.
type Wizard struct {
	ID               string      `json:"id"`
	Step             int         `json:"step"`
	SelectedFlight   *Flight     `json:"selectedFlight,omitempty"`
	SelectedHotel    *Hotel      `json:"selectedHotel,omitempty"`
	SelectedActivity *Activity   `json:"selectedActivity,omitempty"`
	Contact          ContactInfo `json:"contact"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// Next advances one step, clamped at the summary.
func (w *Wizard) Next() {
	if w.Step < StepSummary {
		w.Step++
	}
}

// Previous steps back, clamped at the flight step.
func (w *Wizard) Previous() {
	if w.Step > StepFlight {
		w.Step--
	}
}

// Jump moves directly to an earlier (or the current) step. Jumping forward
// past the current step is refused; the user advances with Next.
func (w *Wizard) Jump(step int) error {
	if step < StepFlight || step > StepSummary {
		return fmt.Errorf("step %d out of range", step)
	}
	if step > w.Step {
		return fmt.Errorf("cannot jump forward to step %d", step)
	}
	w.Step = step
	return nil
}

// SelectFlight toggles the flight selection: re-selecting the current flight
// clears it, selecting another replaces it. Downstream selections that no
// longer match the new destination are dropped. Deselection works even when
// the item has sold out in the meantime; only a new selection is stock-gated.
func (w *Wizard) SelectFlight(f *Flight) error {
	if w.SelectedFlight != nil && w.SelectedFlight.FlightID == f.FlightID {
		w.SelectedFlight = nil
	} else {
		if f.Stock <= 0 {
			return ErrOutOfStock
		}
		w.SelectedFlight = f
	}
	if w.SelectedFlight != nil && w.SelectedHotel != nil &&
		w.SelectedHotel.City != w.SelectedFlight.Destination {
		w.SelectedHotel = nil
		w.SelectedActivity = nil
	}
	return nil
}

func (w *Wizard) SelectHotel(h *Hotel) error {
	if w.SelectedHotel != nil && w.SelectedHotel.HotelID == h.HotelID {
		w.SelectedHotel = nil
	} else {
		if h.Stock <= 0 {
			return ErrOutOfStock
		}
		w.SelectedHotel = h
	}
	if w.SelectedHotel != nil && w.SelectedActivity != nil &&
		w.SelectedActivity.Location != w.SelectedHotel.City {
		w.SelectedActivity = nil
	}
	return nil
}

func (w *Wizard) SelectActivity(a *Activity) error {
	if w.SelectedActivity != nil && w.SelectedActivity.ActivityID == a.ActivityID {
		w.SelectedActivity = nil
	} else {
		if a.Stock <= 0 {
			return ErrOutOfStock
		}
		w.SelectedActivity = a
	}
	return nil
}

// HasSelection reports whether at least one product is selected. A package
// must reference at least one product.
func (w *Wizard) HasSelection() bool {
	return w.SelectedFlight != nil || w.SelectedHotel != nil || w.SelectedActivity != nil
}

// TotalPrice computes the running package total. Absent selections count as
// zero; hotels are priced for a fixed HotelNights stay.
func (w *Wizard) TotalPrice() float64 {
	var total float64
	if w.SelectedFlight != nil {
		total += w.SelectedFlight.Price
	}
	if w.SelectedHotel != nil {
		total += w.SelectedHotel.PricePerNight * HotelNights
	}
	if w.SelectedActivity != nil {
		total += w.SelectedActivity.Price
	}
	return total
}

// ─── Service ─────────────────────────────────────────────────────────────────

// WizardService persists wizard sessions and narrows candidate lists per
// step against the live catalog.
type WizardService struct {
	backend *BackendClient
	store   Store
}

func NewWizardService(backend *BackendClient, store Store) *WizardService {
	return &WizardService{backend: backend, store: store}
}

func wizardKey(id string) string { return "wizard:" + id }

func (s *WizardService) Create(ctx context.Context) (*Wizard, error) {
	w := &Wizard{
		ID:        uuid.New().String(),
		Step:      StepFlight,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WizardService) Get(ctx context.Context, id string) (*Wizard, error) {
	w := &Wizard{}
	found, err := s.store.Get(ctx, wizardKey(id), w)
	if err != nil {
		return nil, fmt.Errorf("load wizard: %w", err)
	}
	if !found {
		return nil, ErrWizardNotFound
	}
	return w, nil
}

func (s *WizardService) Save(ctx context.Context, w *Wizard) error {
	if err := s.store.Set(ctx, wizardKey(w.ID), w, wizardTTL); err != nil {
		return fmt.Errorf("save wizard: %w", err)
	}
	return nil
}

func (s *WizardService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, wizardKey(id))
}

// FlightOptions lists flight candidates for the flight step.
func (s *WizardService) FlightOptions(ctx context.Context, c Criteria) ([]Flight, error) {
	flights, err := s.backend.ListFlights(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFlights(flights, c), nil
}

// HotelOptions lists hotel candidates, narrowed to the selected flight's
// destination city when a flight is chosen. This is a display filter over
// the fetched list, not a new backend query.
func (s *WizardService) HotelOptions(ctx context.Context, w *Wizard, c Criteria) ([]Hotel, error) {
	hotels, err := s.backend.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	if w.SelectedFlight != nil {
		c.City = w.SelectedFlight.Destination
	}
	return FilterHotels(hotels, c), nil
}

// ActivityOptions lists activity candidates, narrowed to the selected
// hotel's city when a hotel is chosen.
func (s *WizardService) ActivityOptions(ctx context.Context, w *Wizard, c Criteria) ([]Activity, error) {
	activities, err := s.backend.ListActivities(ctx)
	if err != nil {
		return nil, err
	}
	if w.SelectedHotel != nil {
		c.City = w.SelectedHotel.City
	}
	return FilterActivities(activities, c), nil
}

func (s *WizardService) SelectFlight(ctx context.Context, w *Wizard, flightID int) error {
	flight, err := s.backend.GetFlight(ctx, flightID)
	if err != nil {
		return err
	}
	if err := w.SelectFlight(flight); err != nil {
		return err
	}
	return s.Save(ctx, w)
}

func (s *WizardService) SelectHotel(ctx context.Context, w *Wizard, hotelID int) error {
	hotel, err := s.backend.GetHotel(ctx, hotelID)
	if err != nil {
		return err
	}
	if err := w.SelectHotel(hotel); err != nil {
		return err
	}
	return s.Save(ctx, w)
}

func (s *WizardService) SelectActivity(ctx context.Context, w *Wizard, activityID int) error {
	activity, err := s.backend.GetActivity(ctx, activityID)
	if err != nil {
		return err
	}
	if err := w.SelectActivity(activity); err != nil {
		return err
	}
	return s.Save(ctx, w)
}

// SetContact stores the summary-step contact fields.
func (s *WizardService) SetContact(ctx context.Context, w *Wizard, contact ContactInfo) error {
	w.Contact = contact
	return s.Save(ctx, w)
}

// PrefillContact fills empty contact fields from the authenticated customer
// profile, falling back to a previously saved draft for anonymous users.
func (w *Wizard) PrefillContact(user *Customer, draft *BookingDraft) {
	if w.Contact != (ContactInfo{}) {
		return
	}
	if user != nil {
		w.Contact = ContactInfo{Name: user.Name, Email: user.Email, Phone: user.Phone}
		return
	}
	if draft != nil {
		w.Contact = ContactInfo{Name: draft.Name, Email: draft.Email, Phone: draft.Phone}
	}
}
