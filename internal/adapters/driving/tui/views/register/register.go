// Package register provides the registration form view that gates the TUI.
package register

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driving"
)

var placeholders = map[domain.Field]string{
	domain.FieldName:     "Jane Doe",
	domain.FieldAge:      "18 or over",
	domain.FieldEmail:    "jane@example.com",
	domain.FieldPassword: "at least 6 characters",
	domain.FieldMobile:   "10 digits",
}

// View is the registration form.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session driving.SessionService

	fields []domain.Field
	form   *input.Form
	values domain.RegistrationForm
	result *domain.ValidationResult
	err    error

	width  int
	height int
}

// NewView creates a new registration view.
func NewView(s *styles.Styles, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	fields := domain.RegistrationFields()
	inputs := make([]*input.Field, 0, len(fields))
	for _, f := range fields {
		if f == domain.FieldPassword {
			inputs = append(inputs, input.NewSecretField(s, f.Label(), placeholders[f]))
			continue
		}
		inputs = append(inputs, input.NewField(s, f.Label(), placeholders[f]))
	}

	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		session: session,
		fields:  fields,
		form:    input.NewForm(inputs...),
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.form.FocusFirst(), textinput.Blink)
}

// Update handles messages for the registration view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, v.form.Update(msg)
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.NextField):
		return v, v.form.Next()
	case keymap.Matches(k, v.keymap.PrevField):
		return v, v.form.Prev()
	case keymap.Matches(k, v.keymap.Submit):
		return v, v.submit()
	}

	cmd := v.form.Update(msg)
	v.syncFocused()
	return v, cmd
}

// syncFocused copies the focused input into the form values.
func (v *View) syncFocused() {
	i := v.form.FocusIndex()
	if i < 0 || i >= len(v.fields) {
		return
	}
	v.values.Set(v.fields[i], v.form.Field(i).Value())
}

// submit validates the form and reports a successful registration.
func (v *View) submit() tea.Cmd {
	if v.session == nil {
		v.err = fmt.Errorf("session service not available: %w", domain.ErrNotImplemented)
		return nil
	}

	result := v.session.Submit(v.values)
	v.result = &result
	v.err = nil
	for i, f := range v.fields {
		v.form.Field(i).SetError(result.Errors.Message(f))
	}
	if !result.Valid {
		// Jump to the first failing field
		if failing := result.Errors.Fields(); len(failing) > 0 {
			for i, f := range v.fields {
				if f == failing[0] {
					return v.form.FocusAt(i)
				}
			}
		}
		return nil
	}
	return func() tea.Msg {
		return messages.Registered{}
	}
}

// View renders the registration form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Create your account"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Register to manage your services."))
	b.WriteString("\n\n")

	b.WriteString(v.form.View())
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	} else if v.result != nil && !v.result.Valid {
		b.WriteString(v.styles.Warning.Render(
			fmt.Sprintf("Please fix %d field(s) and press enter again.", len(v.result.Errors))))
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[tab/shift+tab] move  [enter] register  [ctrl+c] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.form.SetWidth(width)
}

// Values returns the current form values.
func (v *View) Values() domain.RegistrationForm {
	return v.values
}

// Result returns the outcome of the last submit, or nil.
func (v *View) Result() *domain.ValidationResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// FocusedField returns the field that has focus.
func (v *View) FocusedField() domain.Field {
	return v.fields[v.form.FocusIndex()]
}

// Reset clears the form.
func (v *View) Reset() {
	v.form.Reset()
	v.values = domain.RegistrationForm{}
	v.result = nil
	v.err = nil
}
