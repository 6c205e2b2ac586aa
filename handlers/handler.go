package handlers

import (
	"errors"
	"net/http"

	"viajesglobal/services"

	"github.com/gin-gonic/gin"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	Sessions *services.SessionService
	Wizards  *services.WizardService
	Bookings *services.BookingService
	Recovery *services.RecoveryService
	Backend  *services.BackendClient
	Store    services.Store
}

func New(sessions *services.SessionService, wizards *services.WizardService,
	bookings *services.BookingService, recovery *services.RecoveryService,
	backend *services.BackendClient, store services.Store) *Handler {
	return &Handler{
		Sessions: sessions,
		Wizards:  wizards,
		Bookings: bookings,
		Recovery: recovery,
		Backend:  backend,
		Store:    store,
	}
}

// currentUser returns the authenticated customer set by the auth middleware,
// or nil for anonymous requests.
func currentUser(c *gin.Context) *services.Customer {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, ok := v.(*services.Customer)
	if !ok {
		return nil
	}
	return user
}

// backendError maps a failed backend call to a response. Validation-style
// errors are handled at each call site; everything else is a gateway fault.
func backendError(c *gin.Context, err error, fallback string) {
	status := http.StatusBadGateway
	if s := services.BackendStatus(err); s == http.StatusNotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": services.BackendMessage(err, fallback)})
}

// wizardOr404 loads the wizard session from the :id param.
func (h *Handler) wizardOr404(c *gin.Context) (*services.Wizard, bool) {
	w, err := h.Wizards.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrWizardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wizard session"})
		}
		return nil, false
	}
	return w, true
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "Viajes Global storefront",
	})
}
