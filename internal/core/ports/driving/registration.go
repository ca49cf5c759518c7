package driving

import "github.com/custodia-labs/carelist/internal/core/domain"

// RegistrationService validates sign-up forms.
type RegistrationService interface {
	// Validate checks every field of the form and reports all failures.
	// It has no side effects.
	Validate(form domain.RegistrationForm) domain.ValidationResult
}
