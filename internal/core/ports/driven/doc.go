// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KeyValueStore: Single-slot persistence for the service list
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application falls back to a default:
//
//   - IDGenerator: Produces service IDs. Defaults to random UUIDs.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
