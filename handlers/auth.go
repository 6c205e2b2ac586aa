package handlers

import (
	"net/http"

	"viajesglobal/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, token, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.BackendMessage(err, "Incorrect username or password")})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// CheckAuth reports whether the bearer token is still good. The client calls
// this on page load instead of trusting whatever it has cached.
func (h *Handler) CheckAuth(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": true,
		"user":            user,
	})
}

// Logout is best-effort: the token is stateless, so there is nothing to
// revoke server-side. The client drops its copy regardless.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	user := currentUser(c)

	var patch services.ProfileUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
		return
	}

	updated, token, err := h.Sessions.UpdateProfile(c.Request.Context(), user, patch)
	if err != nil {
		backendError(c, err, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  updated,
		"token": token,
	})
}
