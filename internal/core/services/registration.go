package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driving"
	"github.com/custodia-labs/carelist/internal/logger"
)

// Ensure RegistrationService implements the interface.
var _ driving.RegistrationService = (*RegistrationService)(nil)

const (
	minimumAge        = 18
	minPasswordLength = 6
)

// Field messages shown next to failing inputs.
const (
	msgNameRequired    = "Name is required"
	msgAgeInvalid      = "Age must be a number and at least 18"
	msgEmailInvalid    = "Email is invalid"
	msgPasswordShort   = "Password must be at least 6 characters"
	msgMobileMalformed = "Mobile number must be 10 digits"
)

var (
	// Only checks that something@something.something appears somewhere.
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidateRegistration checks every field of the form. All rules run on
// every call so the result lists every failing field at once.
func ValidateRegistration(form domain.RegistrationForm) domain.ValidationResult {
	errs := domain.ValidationErrors{}
	fail := func(field domain.Field, code domain.ErrorCode, msg string) {
		errs[field] = domain.FieldError{Field: field, Code: code, Message: msg}
	}

	if strings.TrimSpace(form.Name) == "" {
		fail(domain.FieldName, domain.CodeRequired, msgNameRequired)
	}
	if !validAge(form.Age) {
		fail(domain.FieldAge, domain.CodeInvalidOrUnderage, msgAgeInvalid)
	}
	if !emailPattern.MatchString(form.Email) {
		fail(domain.FieldEmail, domain.CodeInvalidFormat, msgEmailInvalid)
	}
	if utf8.RuneCountInString(form.Password) < minPasswordLength {
		fail(domain.FieldPassword, domain.CodeTooShort, msgPasswordShort)
	}
	if !mobilePattern.MatchString(form.Mobile) {
		fail(domain.FieldMobile, domain.CodeInvalidFormat, msgMobileMalformed)
	}

	return domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validAge(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	age, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(age) || math.IsInf(age, 0) {
		return false
	}
	return age >= minimumAge
}

// RegistrationService validates sign-up forms.
type RegistrationService struct{}

// NewRegistrationService creates a new registration service.
func NewRegistrationService() *RegistrationService {
	return &RegistrationService{}
}

// Validate checks every field of the form.
func (s *RegistrationService) Validate(form domain.RegistrationForm) domain.ValidationResult {
	result := ValidateRegistration(form)
	if result.Valid {
		logger.Debug("Registration form valid")
	} else {
		logger.Debug("Registration form invalid: %v", result.Errors.Fields())
	}
	return result
}
