// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The registration validator is a pure function. The catalogue owns the
// service list and its editing slot and writes through to a key-value slot.
package services
