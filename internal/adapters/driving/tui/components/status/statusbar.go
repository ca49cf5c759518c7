// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateNotice  State = "notice"
	StateWarning State = "warning"
	StateError   State = "error"
	StateHelp    State = "help"
)

// Bar displays the storage backend, record count, the last notice and
// keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	backend string
	count   int
	hints   []key.Binding
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar on a single line. Hints that do not fit
// are dropped from the end.
func (s *Bar) View() string {
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	left := s.renderLeft()
	right := s.renderRight(inner - lipgloss.Width(left) - 1)

	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return s.styles.StatusBar.Width(s.width).MaxHeight(1).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the backend, the count and the current notice.
func (s *Bar) renderLeft() string {
	parts := make([]string, 0, 3)
	if s.backend != "" {
		parts = append(parts, s.styles.Subtitle.Render(s.backend))
	}
	parts = append(parts, s.styles.Normal.Render(countLabel(s.count)))

	switch s.state {
	case StateLoading:
		parts = append(parts, s.styles.Muted.Render("Loading..."))
	case StateNotice:
		if s.message != "" {
			parts = append(parts, s.styles.Success.Render(s.message))
		}
	case StateWarning:
		if s.message != "" {
			parts = append(parts, s.styles.Warning.Render(s.message))
		}
	case StateError:
		if s.message != "" {
			parts = append(parts, s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message)))
		} else {
			parts = append(parts, s.styles.Error.Render("Error"))
		}
	case StateHelp:
		parts = append(parts, s.styles.Normal.Render("Help"))
	case StateReady:
	}
	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

func countLabel(n int) string {
	if n == 1 {
		return "1 service"
	}
	return fmt.Sprintf("%d services", n)
}

// renderRight renders as many keybinding hints as fit in room cells.
func (s *Bar) renderRight(room int) string {
	bindings := s.hints
	if len(bindings) == 0 {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		next := append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
		if lipgloss.Width(strings.Join(next, " | ")) > room {
			break
		}
		hints = next
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Notify sets state and message together.
func (s *Bar) Notify(state State, message string) {
	s.state = state
	s.message = message
}

// SetBackend sets the storage backend name.
func (s *Bar) SetBackend(backend string) {
	s.backend = backend
}

// Backend returns the storage backend name.
func (s *Bar) Backend() string {
	return s.backend
}

// SetCount sets the record count.
func (s *Bar) SetCount(count int) {
	s.count = count
}

// Count returns the record count.
func (s *Bar) Count() int {
	return s.count
}

// SetHints replaces the keybinding hints. Nil restores the short help.
func (s *Bar) SetHints(bindings []key.Binding) {
	s.hints = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the notice. Backend and count are kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
