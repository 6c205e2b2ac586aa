package handlers

import (
	"net/http"
	"strconv"

	"viajesglobal/services"

	"github.com/gin-gonic/gin"
)

// Catalog list responses echo the canonical query string so the client can
// mirror the active filters into the address bar. That write is one-way:
// the URL never drives a re-fetch after initial load.

type flightListResponse struct {
	Flights []services.Flight `json:"flights"`
	Query   string            `json:"query"`
}

func (h *Handler) ListFlights(c *gin.Context) {
	criteria := services.ParseCriteria(c.Request.URL.Query())

	flights, err := h.Backend.ListFlights(c.Request.Context())
	if err != nil {
		backendError(c, err, "Failed to load flights")
		return
	}

	c.JSON(http.StatusOK, flightListResponse{
		Flights: services.FilterFlights(flights, criteria),
		Query:   criteria.Encode(),
	})
}

type hotelListResponse struct {
	Hotels []services.Hotel `json:"hotels"`
	Query  string           `json:"query"`
}

func (h *Handler) ListHotels(c *gin.Context) {
	criteria := services.ParseCriteria(c.Request.URL.Query())

	hotels, err := h.Backend.ListHotels(c.Request.Context())
	if err != nil {
		backendError(c, err, "Failed to load hotels")
		return
	}

	c.JSON(http.StatusOK, hotelListResponse{
		Hotels: services.FilterHotels(hotels, criteria),
		Query:  criteria.Encode(),
	})
}

type activityListResponse struct {
	Activities []services.Activity `json:"activities"`
	Query      string              `json:"query"`
}

func (h *Handler) ListActivities(c *gin.Context) {
	criteria := services.ParseCriteria(c.Request.URL.Query())

	activities, err := h.Backend.ListActivities(c.Request.Context())
	if err != nil {
		backendError(c, err, "Failed to load activities")
		return
	}

	c.JSON(http.StatusOK, activityListResponse{
		Activities: services.FilterActivities(activities, criteria),
		Query:      criteria.Encode(),
	})
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return id, true
}

func (h *Handler) GetFlight(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	flight, err := h.Backend.GetFlight(c.Request.Context(), id)
	if err != nil {
		backendError(c, err, "Flight not found")
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *Handler) GetHotel(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	hotel, err := h.Backend.GetHotel(c.Request.Context(), id)
	if err != nil {
		backendError(c, err, "Hotel not found")
		return
	}
	c.JSON(http.StatusOK, hotel)
}

func (h *Handler) GetActivity(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	activity, err := h.Backend.GetActivity(c.Request.Context(), id)
	if err != nil {
		backendError(c, err, "Activity not found")
		return
	}
	c.JSON(http.StatusOK, activity)
}
