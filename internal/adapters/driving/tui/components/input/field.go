// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/styles"
)

const (
	defaultCharLimit = 256
	defaultWidth     = 40
	minInputWidth    = 10
)

// Field wraps a bubbles textinput with a label and an inline error line.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	errMsg    string
	width     int
}

// NewField creates a new labelled input.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = defaultCharLimit
	ti.Width = defaultWidth

	return &Field{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     defaultWidth,
	}
}

// NewSecretField creates a labelled input that masks what is typed.
func NewSecretField(s *styles.Styles, label, placeholder string) *Field {
	f := NewField(s, label, placeholder)
	f.textinput.EchoMode = textinput.EchoPassword
	f.textinput.EchoCharacter = '•'
	return f
}

// Init initialises the field.
func (f *Field) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label, the input and any error beneath it.
func (f *Field) View() string {
	box := f.styles.InputField
	if f.textinput.Focused() {
		box = f.styles.FocusedInputField
	}
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	row := lipgloss.JoinHorizontal(lipgloss.Center,
		f.styles.Label.Render(f.label),
		box.Render(f.textinput.View()),
	)
	if f.errMsg == "" {
		return row
	}
	return lipgloss.JoinVertical(lipgloss.Left, row, f.styles.FieldError.Render(f.errMsg))
}

// Label returns the field label.
func (f *Field) Label() string {
	return f.label
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// SetError sets the inline message. Empty clears it.
func (f *Field) SetError(msg string) {
	f.errMsg = msg
}

// ErrorMessage returns the inline message.
func (f *Field) ErrorMessage() string {
	return f.errMsg
}

// Masked reports whether typed characters are hidden.
func (f *Field) Masked() bool {
	return f.textinput.EchoMode == textinput.EchoPassword
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the field.
func (f *Field) SetWidth(width int) {
	f.width = width
	// Account for label and border
	inputWidth := width - f.styles.Label.GetWidth() - 4
	if inputWidth < minInputWidth {
		inputWidth = minInputWidth
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears the value and the error.
func (f *Field) Reset() {
	f.textinput.Reset()
	f.errMsg = ""
}
