// Package tui provides an interactive terminal user interface for carelist.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/carelist/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session gates the application behind registration.
	Session driving.SessionService

	// Catalogue manages the service list.
	Catalogue driving.ServiceCatalogue

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// Changes signals writes to durable storage. Optional.
	Changes <-chan struct{}
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	session driving.SessionService,
	catalogue driving.ServiceCatalogue,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Session:   session,
		Catalogue: catalogue,
		Settings:  settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Catalogue == nil {
		return ErrMissingCatalogueService
	}
	return nil
}
