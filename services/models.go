package services

import "time"

// ─── Catalog entities (read-only, owned by the travel backend) ───────────────

type Image struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type Flight struct {
	FlightID      int     `json:"flightId"`
	Airline       string  `json:"airline"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departureDate"` // ISO date or RFC3339
	ArrivalDate   string  `json:"arrivalDate"`
	Price         float64 `json:"price"`
	Images        []Image `json:"images"`
	Description   string  `json:"description,omitempty"`
	Rating        float64 `json:"rating"`
	Stock         int     `json:"stock"`
}

type Hotel struct {
	HotelID       int     `json:"hotelId"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	Country       string  `json:"country"`
	PricePerNight float64 `json:"pricePerNight"`
	Images        []Image `json:"images"`
	Description   string  `json:"description,omitempty"`
	Rating        float64 `json:"rating"`
	Stock         int     `json:"stock"`
}

type Activity struct {
	ActivityID  int     `json:"activityId"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Location    string  `json:"location,omitempty"`
	Category    string  `json:"category"`
	Images      []Image `json:"images"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
}

// ─── Customer & session ──────────────────────────────────────────────────────

type NotificationPrefs struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

type Customer struct {
	CustomerID        int               `json:"customerId"`
	Email             string            `json:"email"`
	Name              string            `json:"name"`
	Phone             string            `json:"phone,omitempty"`
	NotificationPrefs NotificationPrefs `json:"notificationPrefs"`
}

// ─── Package & booking ───────────────────────────────────────────────────────

// A Package bundles at most one product of each type. The backend computes
// nothing: price is sent by this service at creation time.
type Package struct {
	PackageID  int       `json:"packageId"`
	Price      float64   `json:"price"`
	HotelID    *int      `json:"hotelId,omitempty"`
	FlightID   *int      `json:"flightId,omitempty"`
	ActivityID *int      `json:"activityId,omitempty"`
	Hotel      *Hotel    `json:"hotel,omitempty"`
	Flight     *Flight   `json:"flight,omitempty"`
	Activity   *Activity `json:"activity,omitempty"`
}

const BookingStatusPending = "PENDING"

type Booking struct {
	BookingID   int       `json:"bookingId"`
	CustomerID  int       `json:"customerId"`
	BookingDate time.Time `json:"bookingDate"`
	Status      string    `json:"bookingStatus"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	PackageID   int       `json:"packageId"`
	Package     *Package  `json:"package,omitempty"`
}

// ContactInfo is collected on the wizard summary step.
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
