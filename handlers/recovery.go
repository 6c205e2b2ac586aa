package handlers

import (
	"errors"
	"net/http"

	"viajesglobal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	flowID, err := h.Recovery.Start(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
			return
		}
		backendError(c, err, "Failed to start password recovery")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"flowId":  flowID,
		"message": "A verification code was sent to your email",
	})
}

func (h *Handler) VerifyRecoveryCode(c *gin.Context) {
	var req struct {
		FlowID string `json:"flowId" binding:"required"`
		PIN    string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flow ID and PIN are required"})
		return
	}

	if err := h.Recovery.Verify(c.Request.Context(), req.FlowID, req.PIN); err != nil {
		switch {
		case errors.Is(err, services.ErrFlowNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recovery session expired, please start over"})
		case errors.Is(err, services.ErrIncorrectPIN):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect PIN"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify code"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code verified"})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req struct {
		FlowID          string `json:"flowId" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flow ID and both passwords are required"})
		return
	}

	if err := h.Recovery.Reset(c.Request.Context(), req.FlowID, req.NewPassword, req.ConfirmPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		case errors.Is(err, services.ErrFlowNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recovery session expired, please start over"})
		case errors.Is(err, services.ErrNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": "Verify the code before resetting the password"})
		default:
			backendError(c, err, "Failed to reset password")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated, you can now log in"})
}
