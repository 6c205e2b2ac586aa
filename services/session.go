package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var ErrInvalidToken = errors.New("invalid or expired session token")

// SessionClaims embeds the customer record in the token, so check-auth does
// not need a backend round-trip.
type SessionClaims struct {
	User Customer `json:"user"`
	jwt.StandardClaims
}

// SessionService issues and verifies the signed bearer tokens the client
// keeps in local storage. Login itself is delegated to the travel backend.
type SessionService struct {
	backend *BackendClient
	secret  []byte
	ttl     time.Duration
}

func NewSessionService(backend *BackendClient, secret string, ttl time.Duration) *SessionService {
	return &SessionService{backend: backend, secret: []byte(secret), ttl: ttl}
}

// Login authenticates against the backend and issues a session token. On
// failure the returned error carries the backend's message for the UI.
func (s *SessionService) Login(ctx context.Context, email, password string) (*Customer, string, error) {
	customer, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(customer)
	if err != nil {
		return nil, "", err
	}
	return customer, token, nil
}

// IssueToken signs a fresh HS256 session token for the customer.
func (s *SessionService) IssueToken(customer *Customer) (string, error) {
	claims := SessionClaims{
		User: *customer,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(s.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns the embedded customer. Any
// parse, signature or expiry failure yields ErrInvalidToken.
func (s *SessionService) Verify(tokenStr string) (*Customer, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	user := claims.User
	return &user, nil
}

// ProfileUpdate is a partial settings change. Nil fields are left alone.
type ProfileUpdate struct {
	Name              *string            `json:"name,omitempty"`
	Phone             *string            `json:"phone,omitempty"`
	NotificationPrefs *NotificationPrefs `json:"notificationPrefs,omitempty"`
	NewPassword       string             `json:"newPassword,omitempty"`
}

// UpdateProfile persists the patch through the backend and returns the
// merged customer with a re-signed token, so the session reflects the change
// without a re-fetch.
func (s *SessionService) UpdateProfile(ctx context.Context, user *Customer, patch ProfileUpdate) (*Customer, string, error) {
	merged := *user
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Phone != nil {
		merged.Phone = *patch.Phone
	}
	if patch.NotificationPrefs != nil {
		merged.NotificationPrefs = *patch.NotificationPrefs
	}

	updated, err := s.backend.UpdateClient(ctx, &merged)
	if err != nil {
		return nil, "", err
	}

	if patch.NewPassword != "" {
		if err := s.backend.UpdatePassword(ctx, merged.Email, patch.NewPassword); err != nil {
			return nil, "", err
		}
	}

	token, err := s.IssueToken(updated)
	if err != nil {
		return nil, "", err
	}
	return updated, token, nil
}
