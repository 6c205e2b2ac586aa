package handlers

import (
	"errors"
	"net/http"

	"viajesglobal/services"

	"github.com/gin-gonic/gin"
)

// ─── Session Lifecycle ───────────────────────────────────────────────────────

func (h *Handler) CreateWizard(c *gin.Context) {
	w, err := h.Wizards.Create(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start wizard session"})
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *Handler) GetWizard(c *gin.Context) {
	w, ok := h.wizardOr404(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, wizardView(w))
}

// ─── Navigation ──────────────────────────────────────────────────────────────

func (h *Handler) WizardNext(c *gin.Context) {
	w, ok := h.wizardOr404(c)
	if !ok {
		return
	}
	w.Next()
	if err := h.Wizards.Save(c.Request.Context(), w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save wizard session"})
		return
	}
	c.JSON(http.StatusOK, wizardView(w))
}

func (h *Handler) WizardPrevious(c *gin.Context) {
	w, ok := h.wizardOr404(c)
	if !ok {
		return
	}
	w.Previous()
	if err := h.Wizards.Save(c.Request.Context(), w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save wizard session"})
		return
	}
	c.JSON(http.StatusOK, wizardView(w))
}

func (h *Handler) WizardJump(c *gin.Context) {
	w, ok := h.wizardOr404(c)
	if !ok {
		return
	}

	var req struct {
		Step int `json:"step" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Step number is required"})
		return
	}
	if err := w.Jump(req.Step); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Wizards.Save(c.Request.Context(), w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save wizard session"})
		return
	}
	c.JSON(http.StatusOK, wizardView(w))
}

// ─── Step Options ────────────────────────────────────────────────────────────

// WizardOptions serves the candidate list for the wizard's current step,
// narrowed by any upstream selection and by the request's filter params.
func (h *Handler) WizardOptions(c *gin.Context) {
	w, ok := h.wizardOr404(c)
	if !ok {
		return
	}
	criteria := services.ParseCriteria(c.Request.URL.Query())
	ctx := c.Request.Context()

	switch w.Step {
	case services.StepFlight:
		flights, err := h.Wizards.FlightOptions(ctx, criteria)
		if err != nil {
			backendError(c, err, "Failed to load flights")
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": w.Step, "flights": flights})
	case services.StepHotel:
		hotels, err := h.Wizards.HotelOptions(ctx, w, criteria)
		if err != nil {
			backendError(c, err, "Failed to load hotels")
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": w.Step, "hotels": hotels})
	case services.StepActivity:
		activities, err := h.Wizards.ActivityOptions(ctx, w, criteria)
		if err != nil {
			backendError(c, err, "Failed to load activities")
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": w.Step, "activities": activities})
	default:
		c.JSON(http.StatusOK, gin.H{"step": w.Step, "summary": wizardView(w)})
	}
}

// ─── Selection ───────────────────────────────────────────────────────────────

type selectRequest struct {
	ProductID int `json:"productId" binding:"required"`
}

func (h *Handler) selection(c *gin.Context, apply func(*services.Wizard, int) error) {
	w, ok := h.wizardOr404(c)
	if !ok {
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	if err := apply(w, req.ProductID); err != nil {
		if errors.Is(err, services.ErrOutOfStock) {
			c.JSON(http.StatusConflict, gin.H{"error": "Product is out of stock"})
			return
		}
		backendError(c, err, "Failed to select product")
		return
	}
	c.JSON(http.StatusOK, wizardView(w))
}

func (h *Handler) SelectFlight(c *gin.Context) {
	h.selection(c, func(w *services.Wizard, id int) error {
		return h.Wizards.SelectFlight(c.Request.Context(), w, id)
	})
}

func (h *Handler) SelectHotel(c *gin.Context) {
	h.selection(c, func(w *services.Wizard, id int) error {
		return h.Wizards.SelectHotel(c.Request.Context(), w, id)
	})
}

func (h *Handler) SelectActivity(c *gin.Context) {
	h.selection(c, func(w *services.Wizard, id int) error {
		return h.Wizards.SelectActivity(c.Request.Context(), w, id)
	})
}

// ─── Summary & Submission ────────────────────────────────────────────────────

func (h *Handler) SetContact(c *gin.Context) {
	w, ok := h.wizardOr404(c)
	if !ok {
		return
	}
	var contact services.ContactInfo
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact payload"})
		return
	}
	if err := h.Wizards.SetContact(c.Request.Context(), w, contact); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contact info"})
		return
	}
	c.JSON(http.StatusOK, wizardView(w))
}

// WizardSummary prefills empty contact fields from the customer profile, or
// from a previously parked draft for an anonymous user coming back to finish,
// so the summary form opens ready to submit.
func (h *Handler) WizardSummary(c *gin.Context) {
	w, ok := h.wizardOr404(c)
	if !ok {
		return
	}
	draft, err := h.Bookings.Draft(c.Request.Context(), w.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved draft"})
		return
	}
	w.PrefillContact(currentUser(c), draft)
	c.JSON(http.StatusOK, wizardView(w))
}

func (h *Handler) SubmitBooking(c *gin.Context) {
	w, ok := h.wizardOr404(c)
	if !ok {
		return
	}

	result, err := h.Bookings.Submit(c.Request.Context(), w, currentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoSelection), errors.Is(err, services.ErrMissingContact):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			backendError(c, err, "Failed to create booking")
		}
		return
	}

	if result.LoginRequired {
		c.JSON(http.StatusUnauthorized, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// wizardView decorates the stored session with its derived total.
func wizardView(w *services.Wizard) gin.H {
	return gin.H{
		"id":               w.ID,
		"step":             w.Step,
		"selectedFlight":   w.SelectedFlight,
		"selectedHotel":    w.SelectedHotel,
		"selectedActivity": w.SelectedActivity,
		"contact":          w.Contact,
		"totalPrice":       w.TotalPrice(),
		"createdAt":        w.CreatedAt,
	}
}
