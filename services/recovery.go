package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Recovery stages run strictly forward: email → pin → newPassword → success.
// The code is validated server-side against a hashed, expiring copy; it is
// never returned to the client.
const recoveryTTL = 15 * time.Minute

var (
	ErrEmailNotFound    = errors.New("email not found")
	ErrFlowNotFound     = errors.New("recovery flow not found or expired")
	ErrIncorrectPIN     = errors.New("incorrect PIN")
	ErrNotVerified      = errors.New("recovery code has not been verified")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

type recoveryFlow struct {
	Email    string `json:"email"`
	CodeHash []byte `json:"codeHash"`
	Verified bool   `json:"verified"`
}

type RecoveryService struct {
	backend *BackendClient
	store   Store
}

func NewRecoveryService(backend *BackendClient, store Store) *RecoveryService {
	return &RecoveryService{backend: backend, store: store}
}

func recoveryKey(id string) string { return "recovery:" + id }

// Start checks the address is registered, generates a 6-digit code, mails it
// through the backend and opens a flow. Only the flow ID leaves the server.
func (s *RecoveryService) Start(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("invalid email address")
	}

	exists, err := s.backend.ClientExists(ctx, email)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrEmailNotFound
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate recovery code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash recovery code: %w", err)
	}

	flowID := uuid.New().String()
	flow := &recoveryFlow{Email: email, CodeHash: hash}
	if err := s.store.Set(ctx, recoveryKey(flowID), flow, recoveryTTL); err != nil {
		return "", fmt.Errorf("save recovery flow: %w", err)
	}

	// Unlike booking confirmations this send is load-bearing: without the
	// email the user cannot continue, so a failure aborts the flow.
	if err := s.backend.SendNotification(ctx, recoveryCodeMail(email, code)); err != nil {
		s.store.Delete(ctx, recoveryKey(flowID))
		return "", err
	}

	return flowID, nil
}

// Verify compares the submitted 6-digit PIN against the stored hash. A
// mismatch leaves the flow on the PIN stage.
func (s *RecoveryService) Verify(ctx context.Context, flowID, pin string) error {
	flow := &recoveryFlow{}
	found, err := s.store.Get(ctx, recoveryKey(flowID), flow)
	if err != nil {
		return fmt.Errorf("load recovery flow: %w", err)
	}
	if !found {
		return ErrFlowNotFound
	}

	if bcrypt.CompareHashAndPassword(flow.CodeHash, []byte(pin)) != nil {
		return ErrIncorrectPIN
	}

	flow.Verified = true
	if err := s.store.Set(ctx, recoveryKey(flowID), flow, recoveryTTL); err != nil {
		return fmt.Errorf("save recovery flow: %w", err)
	}
	return nil
}

// Reset sets the new password for a verified flow and closes it.
func (s *RecoveryService) Reset(ctx context.Context, flowID, newPassword, confirmPassword string) error {
	if newPassword == "" || newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	flow := &recoveryFlow{}
	found, err := s.store.Get(ctx, recoveryKey(flowID), flow)
	if err != nil {
		return fmt.Errorf("load recovery flow: %w", err)
	}
	if !found {
		return ErrFlowNotFound
	}
	if !flow.Verified {
		return ErrNotVerified
	}

	if err := s.backend.UpdatePassword(ctx, flow.Email, newPassword); err != nil {
		return err
	}

	return s.store.Delete(ctx, recoveryKey(flowID))
}

// generateCode returns a 6-digit numeric code with leading zeros allowed.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
