package input

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Form is an ordered group of fields with a single focused entry.
type Form struct {
	fields []*Field
	focus  int
}

// NewForm creates a form. The first field starts focused.
func NewForm(fields ...*Field) *Form {
	f := &Form{fields: fields}
	f.updateFocus()
	return f
}

// Fields returns the fields in order.
func (f *Form) Fields() []*Field {
	return f.fields
}

// Field returns the field at index i, or nil.
func (f *Form) Field(i int) *Field {
	if i < 0 || i >= len(f.fields) {
		return nil
	}
	return f.fields[i]
}

// FocusIndex returns the index of the focused field.
func (f *Form) FocusIndex() int {
	return f.focus
}

// Focused returns the focused field, or nil for an empty form.
func (f *Form) Focused() *Field {
	return f.Field(f.focus)
}

// Next moves focus forward, wrapping at the end.
func (f *Form) Next() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (f.focus + 1) % len(f.fields)
	return f.updateFocus()
}

// Prev moves focus backward, wrapping at the start.
func (f *Form) Prev() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	return f.updateFocus()
}

// FocusFirst moves focus to the first field.
func (f *Form) FocusFirst() tea.Cmd {
	return f.FocusAt(0)
}

// FocusAt moves focus to field i. Out of range indexes are ignored.
func (f *Form) FocusAt(i int) tea.Cmd {
	if i < 0 || i >= len(f.fields) {
		return nil
	}
	f.focus = i
	return f.updateFocus()
}

// Update forwards msg to the focused field.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	field := f.Focused()
	if field == nil {
		return nil
	}
	_, cmd := field.Update(msg)
	return cmd
}

// View renders every field, one per row.
func (f *Form) View() string {
	rows := make([]string, 0, len(f.fields))
	for _, field := range f.fields {
		rows = append(rows, field.View())
	}
	return strings.Join(rows, "\n")
}

// SetWidth sets the width of every field.
func (f *Form) SetWidth(width int) {
	for _, field := range f.fields {
		field.SetWidth(width)
	}
}

// ClearErrors removes every inline message.
func (f *Form) ClearErrors() {
	for _, field := range f.fields {
		field.SetError("")
	}
}

// Reset clears every field and focuses the first.
func (f *Form) Reset() tea.Cmd {
	for _, field := range f.fields {
		field.Reset()
	}
	return f.FocusFirst()
}

// updateFocus focuses the current field and blurs the rest.
func (f *Form) updateFocus() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(f.fields))
	for i, field := range f.fields {
		if i == f.focus {
			cmds = append(cmds, field.Focus())
		} else {
			field.Blur()
		}
	}
	return tea.Batch(cmds...)
}
