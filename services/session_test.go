package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_IssueAndVerify(t *testing.T) {
	svc := NewSessionService(nil, "test-secret", time.Hour)
	customer := &Customer{
		CustomerID: 42,
		Email:      "alice@example.com",
		Name:       "Alice",
		NotificationPrefs: NotificationPrefs{
			Email: true,
		},
	}

	token, err := svc.IssueToken(customer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 42, got.CustomerID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.True(t, got.NotificationPrefs.Email)
}

func TestSession_VerifyRejectsGarbage(t *testing.T) {
	svc := NewSessionService(nil, "test-secret", time.Hour)

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSession_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewSessionService(nil, "secret-a", time.Hour)
	verifier := NewSessionService(nil, "secret-b", time.Hour)

	token, err := issuer.IssueToken(&Customer{CustomerID: 1})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSession_VerifyRejectsExpired(t *testing.T) {
	svc := NewSessionService(nil, "test-secret", -time.Minute)

	token, err := svc.IssueToken(&Customer{CustomerID: 1})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
