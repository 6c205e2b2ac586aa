package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"viajesglobal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string][]byte{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = payload
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string, dest any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, dest)
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func (f *fakeStore) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[key]; ok {
		return false, nil
	}
	f.entries[key] = []byte(value)
	return true, nil
}

func testHandler(t *testing.T, backendHandler http.HandlerFunc) (*Handler, *services.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var backend *services.BackendClient
	if backendHandler != nil {
		server := httptest.NewServer(backendHandler)
		t.Cleanup(server.Close)
		backend = services.NewBackendClient(server.URL, 5*time.Second)
	}

	store := newFakeStore()
	sessions := services.NewSessionService(backend, "test-secret", time.Hour)
	return New(
		sessions,
		services.NewWizardService(backend, store),
		services.NewBookingService(backend, store),
		services.NewRecoveryService(backend, store),
		backend,
		store,
	), sessions
}

func TestCheckAuth(t *testing.T) {
	h, sessions := testHandler(t, nil)

	r := gin.New()
	r.GET("/auth/check", h.AuthOptional, h.CheckAuth)

	// Anonymous request.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/check", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isAuthenticated":false}`, w.Body.String())

	// With a valid bearer token.
	token, err := sessions.IssueToken(&services.Customer{CustomerID: 1, Email: "alice@example.com"})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/auth/check", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	var resp struct {
		IsAuthenticated bool              `json:"isAuthenticated"`
		User            services.Customer `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsAuthenticated)
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

func TestAuthRequired(t *testing.T) {
	h, sessions := testHandler(t, nil)

	r := gin.New()
	r.GET("/private", h.AuthRequired, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": currentUser(c).Email})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := sessions.IssueToken(&services.Customer{Email: "alice@example.com"})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIdempotencyMiddleware(t *testing.T) {
	h, _ := testHandler(t, nil)

	hits := 0
	r := gin.New()
	r.POST("/submit", h.Idempotency(time.Hour), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	send := func(key string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/submit", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("abc").Code)

	// Same key again is refused before the handler runs.
	resp := send("abc")
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "true", resp.Header().Get("X-Idempotency-Hit"))
	assert.Equal(t, 1, hits)

	assert.Equal(t, http.StatusOK, send("def").Code)

	// No header means no protection.
	assert.Equal(t, http.StatusOK, send("").Code)
	assert.Equal(t, 3, hits)
}

func TestIdempotency_FailedAttemptIsRetryable(t *testing.T) {
	h, _ := testHandler(t, nil)

	attempts := 0
	r := gin.New()
	r.POST("/submit", h.Idempotency(time.Hour), func(c *gin.Context) {
		attempts++
		if attempts == 1 {
			c.JSON(http.StatusBadGateway, gin.H{"error": "backend unreachable"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/submit", nil)
		req.Header.Set("Idempotency-Key", "abc")
		r.ServeHTTP(w, req)
		return w
	}

	// A failed attempt releases the key, so the user can resubmit.
	assert.Equal(t, http.StatusBadGateway, send().Code)
	assert.Equal(t, http.StatusCreated, send().Code)

	// Once completed, the key holds and repeats are refused.
	assert.Equal(t, http.StatusConflict, send().Code)
	assert.Equal(t, 2, attempts)
}

func TestWizardSummary_PrefillsFromSavedDraft(t *testing.T) {
	h, _ := testHandler(t, nil)
	ctx := context.Background()

	wizard := &services.Wizard{ID: "w-1", Step: services.StepSummary}
	require.NoError(t, h.Store.Set(ctx, "wizard:w-1", wizard, time.Hour))
	require.NoError(t, h.Store.Set(ctx, "draft:w-1", &services.BookingDraft{
		Name: "Alice", Email: "alice@example.com", Phone: "555",
	}, time.Hour))

	r := gin.New()
	r.GET("/wizard/:id/summary", h.AuthOptional, h.WizardSummary)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/wizard/w-1/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Contact services.ContactInfo `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.Contact.Name)
	assert.Equal(t, "alice@example.com", resp.Contact.Email)
	assert.Equal(t, "555", resp.Contact.Phone)
}

func TestRemoveBooking_AnonymousWithoutDraft(t *testing.T) {
	h, _ := testHandler(t, nil)

	r := gin.New()
	r.DELETE("/bookings/:id", h.AuthOptional, h.RemoveBooking)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/bookings/0", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Saved booking draft not found"}`, w.Body.String())
}

func TestListFlights_EchoesCanonicalQuery(t *testing.T) {
	h, _ := testHandler(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]services.Flight{
			{FlightID: 1, Airline: "Iberia", Price: 450, Stock: 2},
			{FlightID: 2, Airline: "Air France", Price: 300, Stock: 1},
		})
	})

	r := gin.New()
	r.GET("/flights", h.ListFlights)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/flights?airline=Iberia&maxPrice=1000", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Flights []services.Flight `json:"flights"`
		Query   string            `json:"query"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Flights, 1)
	assert.Equal(t, "Iberia", resp.Flights[0].Airline)
	// The default maxPrice is dropped from the canonical form.
	assert.Equal(t, "airline=Iberia&sortBy=price", resp.Query)
}

func TestBackendErrorMapping(t *testing.T) {
	h, _ := testHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Flight not found"})
	})

	r := gin.New()
	r.GET("/flights/:id", h.GetFlight)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/flights/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Flight not found"}`, w.Body.String())
}
