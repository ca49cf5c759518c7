package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/views/register"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/views/services"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/pubsub"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// The registration view is shown until the session is registered. After
// that the services view is the home screen and there is no way back.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	keymap *keymap.KeyMap

	registerView *register.View
	servicesView *services.View
	settingsView *settings.View
	statusBar    *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrInvalidPorts)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	app := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		registerView: register.NewView(s, ports.Session),
		servicesView: services.NewView(s, ports.Catalogue).WatchChanges(ports.Changes),
		settingsView: settings.NewView(s, ports.Settings),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewRegister,
	}
	if ports.Session.Registered() {
		app.currentView = messages.ViewServices
	}
	return app, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithBackend sets the storage backend name shown in the status bar.
func (a *App) WithBackend(backend domain.StorageBackend) *App {
	a.statusBar.SetBackend(backend.String())
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("carelist")}
	if a.currentView == messages.ViewServices {
		cmds = append(cmds, a.servicesView.Init())
	} else {
		cmds = append(cmds, a.registerView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.syncStatus()
	return a, cmd
}

//nolint:gocyclo // central message handler requires complexity
func (a *App) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if keymap.Matches(msg.String(), a.keymap.ForceQuit) {
			return tea.Quit
		}
		a.err = nil
		return a.handleKeyMsg(msg)

	case messages.Registered:
		a.currentView = messages.ViewServices
		return a.servicesView.Init()

	case messages.ViewChanged:
		return a.changeView(msg.View)

	case messages.ServicesLoaded, messages.ServiceAdded, messages.ServiceUpdated,
		messages.ServiceDeleted, messages.StorageChanged, pubsub.Event[domain.Service]:
		a.servicesView, cmd = a.servicesView.Update(msg)
		return cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return nil

	case messages.Quit:
		return tea.Quit
	}

	// Forward other messages (cursor blink etc.) to active view
	switch a.currentView {
	case messages.ViewRegister:
		a.registerView, cmd = a.registerView.Update(msg)
	case messages.ViewServices:
		a.servicesView, cmd = a.servicesView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}
	return cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewRegister:
		a.registerView, cmd = a.registerView.Update(msg)
	case messages.ViewServices:
		a.servicesView, cmd = a.servicesView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		k := msg.String()
		if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) {
			a.currentView = messages.ViewServices
			return nil
		}
		if keymap.Matches(k, a.keymap.Quit) {
			return tea.Quit
		}
	}
	return cmd
}

// changeView switches views. Nothing but the registration view is
// reachable before the session is registered.
func (a *App) changeView(view messages.ViewType) tea.Cmd {
	if !a.ports.Session.Registered() && view != messages.ViewRegister {
		return nil
	}
	if a.ports.Session.Registered() && view == messages.ViewRegister {
		return nil
	}

	a.currentView = view
	switch view {
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewRegister, messages.ViewServices, messages.ViewHelp:
	}
	return nil
}

// syncStatus copies the services view state into the status bar.
func (a *App) syncStatus() {
	a.statusBar.SetCount(a.servicesView.Count())
	switch a.currentView {
	case messages.ViewHelp:
		a.statusBar.Notify(status.StateHelp, "")
		a.statusBar.SetHints(a.keymap.ShortHelp())
		return
	case messages.ViewRegister:
		a.statusBar.SetHints(a.keymap.RegisterHelp())
	case messages.ViewServices, messages.ViewSettings:
		a.statusBar.SetHints(a.servicesView.Hints())
	}

	if a.err != nil {
		a.statusBar.Notify(status.StateError, a.err.Error())
		return
	}
	state, notice := a.servicesView.Status()
	a.statusBar.Notify(state, notice)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewRegister:
		return a.registerView.View()
	case messages.ViewServices:
		body = a.servicesView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	}
	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Services:
  j/k, ↑/↓    Move the cursor
  a           Add a service
  e, enter    Edit the selected service
  d           Delete the selected service
  r           Reload from storage
  s           Storage settings
  q           Quit

Forms:
  tab         Next field
  shift+tab   Previous field
  enter       Save
  esc         Cancel

Anywhere:
  ctrl+c      Quit

[esc] back to services`
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.servicesView.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.registerView.SetDimensions(width, height)
	// Leave a line for the status bar
	a.servicesView.SetDimensions(width, height-2)
	a.settingsView.SetDimensions(width, height-2)
	a.statusBar.SetWidth(width)
}
