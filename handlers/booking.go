package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"viajesglobal/services"

	"github.com/gin-gonic/gin"
)

// Cart lists the user's pending bookings. Anonymous sessions may pass their
// draft ID to see the parked submission instead.
func (h *Handler) Cart(c *gin.Context) {
	items, err := h.Bookings.Cart(c.Request.Context(), currentUser(c), c.Query("draftId"))
	if err != nil {
		backendError(c, err, "Failed to load cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) RemoveBooking(c *gin.Context) {
	bookingID, _ := strconv.Atoi(c.Param("id"))
	user := currentUser(c)
	if user != nil && bookingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	if err := h.Bookings.Remove(c.Request.Context(), user, bookingID, c.Query("draftId")); err != nil {
		if errors.Is(err, services.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Saved booking draft not found"})
			return
		}
		backendError(c, err, "Failed to remove booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking removed"})
}

func (h *Handler) PayBooking(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil || bookingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	approvalURL, err := h.Bookings.Pay(c.Request.Context(), currentUser(c), bookingID)
	if err != nil {
		if errors.Is(err, services.ErrNothingToPay) {
			c.JSON(http.StatusConflict, gin.H{"error": "Booking has no payable amount"})
			return
		}
		backendError(c, err, "Failed to start payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"approvalUrl": approvalURL})
}

// BookingReceipt streams the confirmation PDF for one of the user's own
// bookings. Nothing is written to disk.
func (h *Handler) BookingReceipt(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil || bookingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	user := currentUser(c)
	bookings, err := h.Backend.BookingsByCustomer(c.Request.Context(), user.CustomerID)
	if err != nil {
		backendError(c, err, "Failed to load bookings")
		return
	}

	var booking *services.Booking
	for i := range bookings {
		if bookings[i].BookingID == bookingID {
			booking = &bookings[i]
			break
		}
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	pdfBytes, err := services.BookingReceiptPDF(booking)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate receipt"})
		return
	}

	filename := fmt.Sprintf("booking_%d.pdf", booking.BookingID)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
