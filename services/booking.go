package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bookingSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_booking_submissions_total",
	Help: "Booking submission attempts, by outcome.",
}, []string{"outcome"})

var (
	ErrNoSelection    = errors.New("select at least one product before booking")
	ErrMissingContact = errors.New("name and email are required")
	ErrDraftNotFound  = errors.New("saved booking draft not found")
	ErrNothingToPay   = errors.New("booking has no payable amount")
)

const draftTTL = 7 * 24 * time.Hour

// BookingDraft is an anonymous user's parked submission: contact fields plus
// the selections, saved until they log in and submit again.
type BookingDraft struct {
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	SelectedFlight   *Flight   `json:"selectedFlight,omitempty"`
	SelectedHotel    *Hotel    `json:"selectedHotel,omitempty"`
	SelectedActivity *Activity `json:"selectedActivity,omitempty"`
	SavedAt          time.Time `json:"savedAt"`
}

// SubmitResult reports how a submission ended. Exactly one of Booking or
// LoginRequired is meaningful.
type SubmitResult struct {
	LoginRequired bool     `json:"loginRequired"`
	DraftID       string   `json:"draftId,omitempty"`
	Booking       *Booking `json:"booking,omitempty"`
}

// CartItem is one entry in the cart view: either a PENDING backend booking
// or the anonymous draft.
type CartItem struct {
	Booking *Booking      `json:"booking,omitempty"`
	Draft   *BookingDraft `json:"draft,omitempty"`
}

type BookingService struct {
	backend *BackendClient
	store   Store
}

func NewBookingService(backend *BackendClient, store Store) *BookingService {
	return &BookingService{backend: backend, store: store}
}

func draftKey(id string) string { return "draft:" + id }

// Submit runs the booking pipeline for a completed wizard. Each backend step
// can fail independently and short-circuits the rest; only the confirmation
// email is best-effort.
func (s *BookingService) Submit(ctx context.Context, w *Wizard, user *Customer) (*SubmitResult, error) {
	if !w.HasSelection() {
		bookingSubmissions.WithLabelValues("rejected").Inc()
		return nil, ErrNoSelection
	}
	if w.Contact.Name == "" || w.Contact.Email == "" {
		bookingSubmissions.WithLabelValues("rejected").Inc()
		return nil, ErrMissingContact
	}

	// Anonymous users park the whole selection and come back after login.
	// No package or booking is created yet.
	if user == nil {
		draft := &BookingDraft{
			Name:             w.Contact.Name,
			Email:            w.Contact.Email,
			Phone:            w.Contact.Phone,
			SelectedFlight:   w.SelectedFlight,
			SelectedHotel:    w.SelectedHotel,
			SelectedActivity: w.SelectedActivity,
			SavedAt:          time.Now().UTC(),
		}
		if err := s.store.Set(ctx, draftKey(w.ID), draft, draftTTL); err != nil {
			bookingSubmissions.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("save draft: %w", err)
		}
		bookingSubmissions.WithLabelValues("deferred").Inc()
		return &SubmitResult{LoginRequired: true, DraftID: w.ID}, nil
	}

	var flightID, hotelID, activityID *int
	if w.SelectedFlight != nil {
		flightID = &w.SelectedFlight.FlightID
	}
	if w.SelectedHotel != nil {
		hotelID = &w.SelectedHotel.HotelID
	}
	if w.SelectedActivity != nil {
		activityID = &w.SelectedActivity.ActivityID
	}

	packageID, err := s.backend.CreatePackage(ctx, w.TotalPrice(), flightID, hotelID, activityID)
	if err != nil {
		bookingSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}

	booking, err := s.backend.CreateBooking(ctx, user.CustomerID, packageID, w.Contact)
	if err != nil {
		bookingSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}

	// Confirmation email is best-effort: log and move on.
	if err := s.backend.SendNotification(ctx, bookingConfirmationMail(w.Contact.Email, booking.BookingID)); err != nil {
		log.Printf("⚠️  Booking %d created but confirmation email failed: %v", booking.BookingID, err)
	}

	if err := s.store.Delete(ctx, draftKey(w.ID)); err != nil {
		log.Printf("⚠️  Failed to clear draft %s: %v", w.ID, err)
	}

	bookingSubmissions.WithLabelValues("created").Inc()
	return &SubmitResult{Booking: booking}, nil
}

// Draft loads a parked anonymous submission, or nil when none exists.
func (s *BookingService) Draft(ctx context.Context, draftID string) (*BookingDraft, error) {
	if draftID == "" {
		return nil, nil
	}
	draft := &BookingDraft{}
	found, err := s.store.Get(ctx, draftKey(draftID), draft)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if !found {
		return nil, nil
	}
	return draft, nil
}

// Cart returns the user's pending bookings, or the saved draft when the
// session is anonymous.
func (s *BookingService) Cart(ctx context.Context, user *Customer, draftID string) ([]CartItem, error) {
	if user != nil {
		bookings, err := s.backend.BookingsByCustomer(ctx, user.CustomerID)
		if err != nil {
			return nil, err
		}
		items := make([]CartItem, 0, len(bookings))
		for i := range bookings {
			if bookings[i].Status != BookingStatusPending {
				continue
			}
			items = append(items, CartItem{Booking: &bookings[i]})
		}
		return items, nil
	}

	if draftID == "" {
		return []CartItem{}, nil
	}
	draft := &BookingDraft{}
	found, err := s.store.Get(ctx, draftKey(draftID), draft)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if !found || draft.Name == "" || draft.Email == "" {
		return []CartItem{}, nil
	}
	return []CartItem{{Draft: draft}}, nil
}

// Remove deletes a pending booking, or clears the anonymous draft.
func (s *BookingService) Remove(ctx context.Context, user *Customer, bookingID int, draftID string) error {
	if user != nil {
		return s.backend.DeleteBooking(ctx, bookingID)
	}
	if draftID == "" {
		return ErrDraftNotFound
	}
	return s.store.Delete(ctx, draftKey(draftID))
}

// Pay starts the payment handoff for a pending booking and returns the
// gateway approval URL. The payment email is best-effort and must not block
// the redirect.
func (s *BookingService) Pay(ctx context.Context, user *Customer, bookingID int) (string, error) {
	bookings, err := s.backend.BookingsByCustomer(ctx, user.CustomerID)
	if err != nil {
		return "", err
	}

	var booking *Booking
	for i := range bookings {
		if bookings[i].BookingID == bookingID {
			booking = &bookings[i]
			break
		}
	}
	if booking == nil {
		return "", fmt.Errorf("booking %d not found", bookingID)
	}

	amount := booking.PackageTotal()
	if amount <= 0 {
		return "", ErrNothingToPay
	}
	approvalURL, err := s.backend.CreatePayment(ctx, PaymentRequest{
		Method:      "paypal",
		Amount:      amount,
		Currency:    "USD",
		Description: fmt.Sprintf("Travel package booking payment, id: %d", bookingID),
	})
	if err != nil {
		return "", err
	}

	if err := s.backend.SendNotification(ctx, paymentConfirmationMail(user.Email, bookingID)); err != nil {
		log.Printf("⚠️  Payment email for booking %d failed: %v", bookingID, err)
	}

	return approvalURL, nil
}

// PackageTotal is the amount charged for the booking's package.
func (b *Booking) PackageTotal() float64 {
	if b.Package != nil {
		return b.Package.Price
	}
	return 0
}
