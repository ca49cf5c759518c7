package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func newTestForm() *Form {
	return NewForm(
		NewField(nil, "A", ""),
		NewField(nil, "B", ""),
		NewField(nil, "C", ""),
	)
}

func TestNewForm_FocusesFirstField(t *testing.T) {
	f := newTestForm()

	assert.Equal(t, 0, f.FocusIndex())
	assert.True(t, f.Field(0).Focused())
	assert.False(t, f.Field(1).Focused())
	assert.False(t, f.Field(2).Focused())
}

func TestForm_NextWraps(t *testing.T) {
	f := newTestForm()

	f.Next()
	assert.Equal(t, 1, f.FocusIndex())
	assert.True(t, f.Field(1).Focused())
	assert.False(t, f.Field(0).Focused())

	f.Next()
	f.Next()
	assert.Equal(t, 0, f.FocusIndex())
}

func TestForm_PrevWraps(t *testing.T) {
	f := newTestForm()

	f.Prev()
	assert.Equal(t, 2, f.FocusIndex())
	assert.True(t, f.Field(2).Focused())
}

func TestForm_UpdateGoesToFocusedField(t *testing.T) {
	f := newTestForm()
	f.Next()

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Equal(t, "", f.Field(0).Value())
	assert.Equal(t, "x", f.Field(1).Value())
}

func TestForm_FieldOutOfRange(t *testing.T) {
	f := newTestForm()

	assert.Nil(t, f.Field(-1))
	assert.Nil(t, f.Field(3))
}

func TestForm_Empty(t *testing.T) {
	f := NewForm()

	assert.Nil(t, f.Focused())
	assert.Nil(t, f.Next())
	assert.Nil(t, f.Prev())
	assert.Nil(t, f.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "", f.View())
}

func TestForm_ResetAndClearErrors(t *testing.T) {
	f := newTestForm()
	f.Field(1).SetValue("v")
	f.Field(2).SetError("bad")
	f.Next()

	f.ClearErrors()
	assert.Equal(t, "", f.Field(2).ErrorMessage())
	assert.Equal(t, "v", f.Field(1).Value())

	f.Reset()
	assert.Equal(t, "", f.Field(1).Value())
	assert.Equal(t, 0, f.FocusIndex())
}

func TestForm_ViewRendersAllLabels(t *testing.T) {
	view := newTestForm().View()

	assert.Contains(t, view, "A")
	assert.Contains(t, view, "B")
	assert.Contains(t, view, "C")
}

func TestForm_SetWidth(t *testing.T) {
	f := newTestForm()

	f.SetWidth(60)

	for _, field := range f.Fields() {
		assert.Equal(t, 60, field.Width())
	}
}

func TestForm_FocusAt(t *testing.T) {
	f := newTestForm()

	f.FocusAt(2)
	assert.Equal(t, 2, f.FocusIndex())
	assert.True(t, f.Field(2).Focused())
	assert.False(t, f.Field(0).Focused())

	assert.Nil(t, f.FocusAt(5))
	assert.Equal(t, 2, f.FocusIndex())
}
