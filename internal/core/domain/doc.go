// Package domain defines the core business entities for Carelist.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RegistrationForm: The transient sign-up form and its validation result
//   - Service: A priced offering managed by the service catalogue
//   - ServiceDraft: The input state used to create a Service
//   - AppSettings: Storage and presentation settings
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
