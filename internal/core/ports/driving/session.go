package driving

import "github.com/custodia-labs/carelist/internal/core/domain"

// SessionService gates access to the service catalogue behind registration.
type SessionService interface {
	// Submit validates the form. A valid form marks the session registered.
	Submit(form domain.RegistrationForm) domain.ValidationResult

	// Registered reports whether a valid form has been submitted.
	// Once true it stays true.
	Registered() bool
}
