package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingReceiptPDF(t *testing.T) {
	flightID, hotelID := 10, 20
	booking := &Booking{
		BookingID:   5,
		CustomerID:  1,
		BookingDate: time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC),
		Status:      BookingStatusPending,
		Name:        "Alice",
		Email:       "alice@example.com",
		Package: &Package{
			PackageID: 77,
			Price:     1100,
			FlightID:  &flightID,
			HotelID:   &hotelID,
			Flight: &Flight{
				FlightID: 10, Airline: "Iberia", Origin: "Madrid", Destination: "Paris",
				DepartureDate: "2026-06-10", ArrivalDate: "2026-06-10T14:00:00Z", Price: 450,
			},
			Hotel: &Hotel{
				HotelID: 20, Name: "Le Grand", Address: "1 Rue de Test",
				City: "Paris", Country: "France", PricePerNight: 200, Rating: 4.7,
			},
		},
	}

	pdf, err := BookingReceiptPDF(booking)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestBookingReceiptPDF_MinimalBooking(t *testing.T) {
	booking := &Booking{
		BookingID:   6,
		BookingDate: time.Now().UTC(),
		Status:      BookingStatusPending,
		Name:        "Bob",
		Email:       "bob@example.com",
	}

	pdf, err := BookingReceiptPDF(booking)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestPackageTotal(t *testing.T) {
	b := &Booking{}
	assert.Zero(t, b.PackageTotal())

	b.Package = &Package{Price: 1100}
	assert.Equal(t, 1100.0, b.PackageTotal())
}
