package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_backend_requests_total",
		Help: "Requests issued to the travel backend, by endpoint family.",
	}, []string{"endpoint"})

	backendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_backend_errors_total",
		Help: "Failed travel backend calls, by endpoint family.",
	}, []string{"endpoint"})
)

// BackendClient talks to the external travel API that owns all persistent
// state: clients, catalog, packages, bookings, notifications and payments.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiError carries the backend's own message when it sends one.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend error (%d)", e.Status)
}

// BackendMessage extracts the server-provided message from an error chain,
// or returns fallback.
func BackendMessage(err error, fallback string) string {
	var ae *apiError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

// BackendStatus returns the backend HTTP status carried by err, or 0.
func BackendStatus(err error) int {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func (c *BackendClient) doRequest(ctx context.Context, method, path, endpoint string, body any) ([]byte, error) {
	backendRequests.WithLabelValues(endpoint).Inc()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		backendErrors.WithLabelValues(endpoint).Inc()
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		backendErrors.WithLabelValues(endpoint).Inc()
		return nil, &apiError{Status: resp.StatusCode, Message: extractMessage(respBody)}
	}
	return respBody, nil
}

// extractMessage pulls a human-readable message out of a backend error body.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// ─── Clients ─────────────────────────────────────────────────────────────────

// Login authenticates a customer against the backend. A 401 surfaces the
// backend's message so callers can show it to the user.
func (c *BackendClient) Login(ctx context.Context, email, password string) (*Customer, error) {
	body, err := c.doRequest(ctx, "POST", "/clients/login", "clients", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	var customer Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	return &customer, nil
}

// ClientExists checks whether a customer with the given email is registered.
// The backend answers a bare JSON boolean.
func (c *BackendClient) ClientExists(ctx context.Context, email string) (bool, error) {
	body, err := c.doRequest(ctx, "POST", "/clients/getByEmail", "clients", email)
	if err != nil {
		return false, fmt.Errorf("email lookup failed: %w", err)
	}

	// The endpoint may answer either a boolean or the client record.
	var exists bool
	if err := json.Unmarshal(body, &exists); err == nil {
		return exists, nil
	}
	var customer Customer
	if err := json.Unmarshal(body, &customer); err == nil {
		return customer.Email != "", nil
	}
	return false, fmt.Errorf("failed to parse email lookup response")
}

func (c *BackendClient) UpdateClient(ctx context.Context, customer *Customer) (*Customer, error) {
	body, err := c.doRequest(ctx, "POST", "/clients/update", "clients", customer)
	if err != nil {
		return nil, fmt.Errorf("profile update failed: %w", err)
	}

	updated := &Customer{}
	if err := json.Unmarshal(body, updated); err != nil {
		// Some backend versions answer a bare boolean. Fall back to the
		// record we sent.
		return customer, nil
	}
	return updated, nil
}

func (c *BackendClient) UpdatePassword(ctx context.Context, email, newPassword string) error {
	body, err := c.doRequest(ctx, "POST", "/clients/updatePassword", "clients", map[string]string{
		"email":       email,
		"newPassword": newPassword,
	})
	if err != nil {
		return fmt.Errorf("password update failed: %w", err)
	}

	var ok bool
	if err := json.Unmarshal(body, &ok); err == nil && !ok {
		return fmt.Errorf("password update rejected by backend")
	}
	return nil
}

// ─── Catalog ─────────────────────────────────────────────────────────────────

func (c *BackendClient) ListFlights(ctx context.Context) ([]Flight, error) {
	body, err := c.doRequest(ctx, "GET", "/flights/showAll", "flights", nil)
	if err != nil {
		return nil, fmt.Errorf("flight list failed: %w", err)
	}
	var flights []Flight
	if err := json.Unmarshal(body, &flights); err != nil {
		return nil, fmt.Errorf("failed to parse flight list: %w", err)
	}
	return flights, nil
}

func (c *BackendClient) GetFlight(ctx context.Context, id int) (*Flight, error) {
	body, err := c.doRequest(ctx, "GET", fmt.Sprintf("/flights/%d", id), "flights", nil)
	if err != nil {
		return nil, fmt.Errorf("flight lookup failed: %w", err)
	}
	flight := &Flight{}
	if err := json.Unmarshal(body, flight); err != nil {
		return nil, fmt.Errorf("failed to parse flight: %w", err)
	}
	return flight, nil
}

func (c *BackendClient) ListHotels(ctx context.Context) ([]Hotel, error) {
	body, err := c.doRequest(ctx, "GET", "/hotels/showAll", "hotels", nil)
	if err != nil {
		return nil, fmt.Errorf("hotel list failed: %w", err)
	}
	var hotels []Hotel
	if err := json.Unmarshal(body, &hotels); err != nil {
		return nil, fmt.Errorf("failed to parse hotel list: %w", err)
	}
	return hotels, nil
}

func (c *BackendClient) GetHotel(ctx context.Context, id int) (*Hotel, error) {
	body, err := c.doRequest(ctx, "GET", fmt.Sprintf("/hotels/%d", id), "hotels", nil)
	if err != nil {
		return nil, fmt.Errorf("hotel lookup failed: %w", err)
	}
	hotel := &Hotel{}
	if err := json.Unmarshal(body, hotel); err != nil {
		return nil, fmt.Errorf("failed to parse hotel: %w", err)
	}
	return hotel, nil
}

func (c *BackendClient) ListActivities(ctx context.Context) ([]Activity, error) {
	body, err := c.doRequest(ctx, "GET", "/activities/showAll", "activities", nil)
	if err != nil {
		return nil, fmt.Errorf("activity list failed: %w", err)
	}
	var activities []Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		return nil, fmt.Errorf("failed to parse activity list: %w", err)
	}
	return activities, nil
}

func (c *BackendClient) GetActivity(ctx context.Context, id int) (*Activity, error) {
	body, err := c.doRequest(ctx, "GET", fmt.Sprintf("/activities/%d", id), "activities", nil)
	if err != nil {
		return nil, fmt.Errorf("activity lookup failed: %w", err)
	}
	activity := &Activity{}
	if err := json.Unmarshal(body, activity); err != nil {
		return nil, fmt.Errorf("failed to parse activity: %w", err)
	}
	return activity, nil
}

// ─── Packages & bookings ─────────────────────────────────────────────────────

type createPackageRequest struct {
	Price      float64 `json:"price"`
	HotelID    *int    `json:"hotelId,omitempty"`
	FlightID   *int    `json:"flightId,omitempty"`
	ActivityID *int    `json:"activityId,omitempty"`
}

// CreatePackage creates a composite package and returns its ID. The backend
// answers a bare numeric ID.
func (c *BackendClient) CreatePackage(ctx context.Context, price float64, flightID, hotelID, activityID *int) (int, error) {
	body, err := c.doRequest(ctx, "POST", "/packages/createPackage", "packages", createPackageRequest{
		Price:      price,
		HotelID:    hotelID,
		FlightID:   flightID,
		ActivityID: activityID,
	})
	if err != nil {
		return 0, fmt.Errorf("package creation failed: %w", err)
	}

	var packageID int
	if err := json.Unmarshal(body, &packageID); err != nil {
		// Tolerate a wrapped {packageId: n} answer.
		var wrapped struct {
			PackageID int `json:"packageId"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil || wrapped.PackageID == 0 {
			return 0, fmt.Errorf("failed to parse package id: %s", string(body))
		}
		packageID = wrapped.PackageID
	}
	return packageID, nil
}

type createBookingRequest struct {
	CustomerID  int       `json:"customerId"`
	BookingDate time.Time `json:"bookingDate"`
	Status      string    `json:"bookingStatus"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	PackageID   int       `json:"packageId"`
}

func (c *BackendClient) CreateBooking(ctx context.Context, customerID, packageID int, contact ContactInfo) (*Booking, error) {
	body, err := c.doRequest(ctx, "POST", "/bookings/createBooking", "bookings", createBookingRequest{
		CustomerID:  customerID,
		BookingDate: time.Now().UTC(),
		Status:      BookingStatusPending,
		Name:        contact.Name,
		Email:       contact.Email,
		Phone:       contact.Phone,
		PackageID:   packageID,
	})
	if err != nil {
		return nil, fmt.Errorf("booking creation failed: %w", err)
	}

	booking := &Booking{}
	if err := json.Unmarshal(body, booking); err != nil {
		return nil, fmt.Errorf("failed to parse booking: %w", err)
	}
	return booking, nil
}

func (c *BackendClient) BookingsByCustomer(ctx context.Context, customerID int) ([]Booking, error) {
	body, err := c.doRequest(ctx, "GET", fmt.Sprintf("/bookings/getByCustomer/%d", customerID), "bookings", nil)
	if err != nil {
		return nil, fmt.Errorf("booking list failed: %w", err)
	}
	var bookings []Booking
	if err := json.Unmarshal(body, &bookings); err != nil {
		return nil, fmt.Errorf("failed to parse booking list: %w", err)
	}
	return bookings, nil
}

func (c *BackendClient) DeleteBooking(ctx context.Context, bookingID int) error {
	_, err := c.doRequest(ctx, "DELETE", fmt.Sprintf("/bookings/%d", bookingID), "bookings", nil)
	if err != nil {
		return fmt.Errorf("booking deletion failed: %w", err)
	}
	return nil
}

// ─── Payments & notifications ────────────────────────────────────────────────

type PaymentRequest struct {
	Method      string  `json:"method"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// CreatePayment starts a payment and returns the gateway approval URL the
// user must be redirected to.
func (c *BackendClient) CreatePayment(ctx context.Context, req PaymentRequest) (string, error) {
	body, err := c.doRequest(ctx, "POST", "/payments/payment/create", "payments", req)
	if err != nil {
		return "", fmt.Errorf("payment creation failed: %w", err)
	}

	var resp struct {
		ApprovalURL string `json:"approvalUrl"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse payment response: %w", err)
	}
	if resp.ApprovalURL == "" {
		return "", fmt.Errorf("no approval URL received")
	}
	return resp.ApprovalURL, nil
}

type Notification struct {
	Message     string `json:"message"`
	MessageHTML string `json:"messageHtml"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	ID          *int   `json:"id,omitempty"`
}

// SendNotification asks the backend's mailer to deliver an email. Callers
// treat failures as non-fatal.
func (c *BackendClient) SendNotification(ctx context.Context, n Notification) error {
	_, err := c.doRequest(ctx, "POST", "/notifications/sendNotification", "notifications", n)
	if err != nil {
		return fmt.Errorf("notification send failed: %w", err)
	}
	return nil
}
