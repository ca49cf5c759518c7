package services

import (
	"sync/atomic"

	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driving"
	"github.com/custodia-labs/carelist/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService tracks whether the user has passed registration.
// The registered flag only ever moves from false to true.
type SessionService struct {
	registration driving.RegistrationService
	registered   atomic.Bool
}

// NewSessionService creates a session gated by the given registration service.
// A nil service falls back to the built-in validator.
func NewSessionService(registration driving.RegistrationService) *SessionService {
	if registration == nil {
		registration = NewRegistrationService()
	}
	return &SessionService{registration: registration}
}

// Submit validates the form and marks the session registered when it passes.
// An invalid submission never clears an earlier registration.
func (s *SessionService) Submit(form domain.RegistrationForm) domain.ValidationResult {
	result := s.registration.Validate(form)
	if result.Valid && s.registered.CompareAndSwap(false, true) {
		logger.Info("Registration accepted")
	}
	return result
}

// Registered reports whether a valid form has been submitted.
func (s *SessionService) Registered() bool {
	return s.registered.Load()
}
