// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/carelist/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewRegister is the registration form shown until a valid submit.
	ViewRegister ViewType = iota
	// ViewServices is the service list and editor.
	ViewServices
	// ViewSettings is the storage settings view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewRegister:
		return "register"
	case ViewServices:
		return "services"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// Registered signals that a valid registration form was submitted.
type Registered struct{}

// ServicesLoaded carries the outcome of hydrating the catalogue.
type ServicesLoaded struct {
	Result domain.LoadResult
	Err    error

	// Reload is set when the load followed a write by another process.
	Reload bool
}

// StorageChanged signals the slot file was written outside this process.
type StorageChanged struct{}

// ServiceAdded signals an add attempt finished.
// Service is nil when the draft was incomplete.
type ServiceAdded struct {
	Service *domain.Service
	Err     error
}

// ServiceUpdated signals an edit commit finished.
type ServiceUpdated struct {
	Service *domain.Service
	Err     error
}

// ServiceDeleted signals a delete finished.
type ServiceDeleted struct {
	ID  string
	Err error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
