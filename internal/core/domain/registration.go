package domain

import (
	"fmt"
	"strings"
)

// Field identifies a registration form field.
type Field string

// Registration form fields.
const (
	FieldName     Field = "name"
	FieldAge      Field = "age"
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
	FieldMobile   Field = "mobile"
)

// RegistrationFields returns all registration fields in form order.
func RegistrationFields() []Field {
	return []Field{FieldName, FieldAge, FieldEmail, FieldPassword, FieldMobile}
}

// IsValid returns true if the field is recognised.
func (f Field) IsValid() bool {
	switch f {
	case FieldName, FieldAge, FieldEmail, FieldPassword, FieldMobile:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Field) String() string {
	return string(f)
}

// Label returns the human-readable label shown next to the input.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldAge:
		return "Age"
	case FieldEmail:
		return "Email"
	case FieldPassword:
		return "Password"
	case FieldMobile:
		return "Mobile"
	default:
		return unknownDescription
	}
}

// ErrorCode classifies why a field failed validation.
type ErrorCode string

// Validation error codes.
const (
	CodeRequired          ErrorCode = "required"
	CodeInvalidOrUnderage ErrorCode = "invalid_or_underage"
	CodeInvalidFormat     ErrorCode = "invalid_format"
	CodeTooShort          ErrorCode = "too_short"
)

// RegistrationForm holds the values typed into the sign-up form.
// It is never persisted.
type RegistrationForm struct {
	Name     string
	Age      string
	Email    string
	Password string
	Mobile   string
}

// Set updates a single field. Unknown fields are ignored.
func (f *RegistrationForm) Set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldAge:
		f.Age = value
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldMobile:
		f.Mobile = value
	}
}

// Value returns the current value of a field.
func (f *RegistrationForm) Value(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldAge:
		return f.Age
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldMobile:
		return f.Mobile
	default:
		return ""
	}
}

// FieldError describes a single failing field.
type FieldError struct {
	Field   Field
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors maps each failing field to its error.
// Fields that pass are absent.
type ValidationErrors map[Field]FieldError

// Has reports whether the field failed.
func (v ValidationErrors) Has(field Field) bool {
	_, ok := v[field]
	return ok
}

// Message returns the message for a field, or "" if it passed.
func (v ValidationErrors) Message(field Field) string {
	return v[field].Message
}

// Fields returns the failing fields in form order.
func (v ValidationErrors) Fields() []Field {
	fields := make([]Field, 0, len(v))
	for _, f := range RegistrationFields() {
		if v.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// ValidationResult is the outcome of validating a RegistrationForm.
type ValidationResult struct {
	Valid  bool
	Errors ValidationErrors
}

// Err returns nil for a valid result, otherwise an error wrapping
// ErrValidation that names the failing fields.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	names := make([]string, 0, len(r.Errors))
	for _, f := range r.Errors.Fields() {
		names = append(names, f.String())
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(names, ", "))
}
