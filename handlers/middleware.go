package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// AuthOptional attaches the customer to the context when a valid bearer
// token is present, and lets anonymous requests through untouched.
func (h *Handler) AuthOptional(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		if user, err := h.Sessions.Verify(token); err == nil {
			c.Set("user", user)
		}
	}
	c.Next()
}

// AuthRequired rejects requests without a valid session token.
func (h *Handler) AuthRequired(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	user, err := h.Sessions.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.Set("user", user)
	c.Next()
}

// inProgressTTL bounds the PROCESSING lock so a crash mid-request cannot
// hold a key forever.
const inProgressTTL = 10 * time.Second

// Idempotency guards state-changing routes against duplicate submission:
// the first request with a given Idempotency-Key wins, repeats of a completed
// one get 409. The key is locked with a short TTL while the handler runs and
// is promoted to the full TTL only on success; a failed attempt releases it
// so the user can retry with the same key.
func (h *Handler) Idempotency(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}
		idemKey := fmt.Sprintf("idempotency:%s", key)
		ctx := c.Request.Context()

		acquired, err := h.Store.SetNX(ctx, idemKey, "PROCESSING", inProgressTTL)
		if err != nil {
			// Store trouble must not block bookings.
			c.Next()
			return
		}
		if !acquired {
			c.Header("X-Idempotency-Hit", "true")
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request already processed"})
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			h.Store.Set(ctx, idemKey, "COMPLETED", ttl)
		} else {
			h.Store.Delete(ctx, idemKey)
		}
	}
}
