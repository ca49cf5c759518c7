// Package services provides the service list and editor view.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driving"
	"github.com/custodia-labs/carelist/internal/pubsub"
)

// Mode tracks what the view is doing.
type Mode int

const (
	ModeList Mode = iota
	ModeAdd
	ModeEdit
)

// View is the service list with add and edit forms.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	catalogue driving.ServiceCatalogue

	ctx      context.Context
	cancel   context.CancelFunc
	listener *pubsub.Listener[domain.Service]

	changes       <-chan struct{}
	watching      bool
	pendingReload bool

	list      *list.ServiceList
	addForm   *input.Form
	editForm  *input.Form
	draft     domain.ServiceDraft
	editingID string
	mode      Mode

	loading bool
	state   status.State
	notice  string

	width  int
	height int
}

// NewView creates a new services view.
func NewView(s *styles.Styles, catalogue driving.ServiceCatalogue) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		styles:    s,
		keymap:    keymap.DefaultKeyMap(),
		catalogue: catalogue,
		ctx:       ctx,
		cancel:    cancel,
		list:      list.NewServiceList(s),
		addForm:   newServiceForm(s),
		editForm:  newServiceForm(s),
		state:     status.StateReady,
	}
}

func newServiceForm(s *styles.Styles) *input.Form {
	fields := domain.ServiceFields()
	inputs := make([]*input.Field, 0, len(fields))
	for _, f := range fields {
		inputs = append(inputs, input.NewField(s, f.Label(), f.Label()))
	}
	return input.NewForm(inputs...)
}

// WatchChanges makes the view reload when ch fires. Nil disables it.
func (v *View) WatchChanges(ch <-chan struct{}) *View {
	v.changes = ch
	return v
}

// Init loads the catalogue and starts listening for changes.
func (v *View) Init() tea.Cmd {
	if v.catalogue == nil {
		return nil
	}
	v.loading = true
	v.state = status.StateLoading
	if v.listener == nil {
		v.listener = pubsub.NewListener[domain.Service](v.ctx, v.catalogue)
	}
	cmds := []tea.Cmd{v.load(), v.listener.Listen()}
	if v.changes != nil && !v.watching {
		v.watching = true
		cmds = append(cmds, v.waitForChange())
	}
	return tea.Batch(cmds...)
}

// Close stops listening for catalogue events.
func (v *View) Close() {
	v.cancel()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.catalogue == nil {
			return messages.ServicesLoaded{Err: fmt.Errorf("service catalogue not available: %w", domain.ErrNotImplemented)}
		}
		result, err := v.catalogue.Load(v.ctx)
		return messages.ServicesLoaded{Result: result, Err: err}
	}
}

// reload hydrates the catalogue after an outside write.
func (v *View) reload() tea.Cmd {
	return func() tea.Msg {
		result, err := v.catalogue.Load(v.ctx)
		return messages.ServicesLoaded{Result: result, Err: err, Reload: true}
	}
}

func (v *View) waitForChange() tea.Cmd {
	if v.changes == nil {
		return nil
	}
	changes, ctx := v.changes, v.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return messages.StorageChanged{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (v *View) add(draft domain.ServiceDraft) tea.Cmd {
	return func() tea.Msg {
		svc, err := v.catalogue.Add(v.ctx, draft)
		return messages.ServiceAdded{Service: svc, Err: err}
	}
}

func (v *View) commit() tea.Cmd {
	return func() tea.Msg {
		svc, err := v.catalogue.CommitEdit(v.ctx)
		return messages.ServiceUpdated{Service: svc, Err: err}
	}
}

func (v *View) remove(id string) tea.Cmd {
	return func() tea.Msg {
		return messages.ServiceDeleted{ID: id, Err: v.catalogue.Delete(v.ctx, id)}
	}
}

// Update handles messages for the services view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case pubsub.Event[domain.Service]:
		v.refresh()
		if v.listener == nil {
			return v, nil
		}
		return v, v.listener.Listen()

	case messages.StorageChanged:
		wait := v.waitForChange()
		if v.catalogue == nil {
			return v, wait
		}
		// Load clears the editing slot, so wait for the form to close.
		if v.mode != ModeList || v.loading {
			v.pendingReload = true
			return v, wait
		}
		return v, tea.Batch(v.reload(), wait)

	case messages.ServicesLoaded:
		if msg.Reload {
			v.handleReloaded(msg)
			return v, nil
		}
		v.loading = false
		v.mode = ModeList
		v.pendingReload = false
		v.refresh()
		switch {
		case errors.Is(msg.Err, domain.ErrCorruptState):
			v.notify(status.StateWarning, "Stored service list was unreadable, starting empty")
		case msg.Err != nil:
			v.notify(status.StateError, msg.Err.Error())
		case msg.Result.Discarded > 0:
			v.notify(status.StateWarning, fmt.Sprintf("Dropped %d malformed record(s)", msg.Result.Discarded))
		default:
			v.notify(status.StateReady, "")
		}
		return v, nil

	case messages.ServiceAdded:
		return v, v.handleAdded(msg)

	case messages.ServiceUpdated:
		v.refresh()
		cmd := v.backToList()
		if msg.Err != nil {
			v.notify(status.StateError, msg.Err.Error())
			return v, cmd
		}
		if msg.Service != nil {
			v.notify(status.StateNotice, fmt.Sprintf("Updated %s", msg.Service.Name))
		}
		return v, cmd

	case messages.ServiceDeleted:
		v.refresh()
		if msg.Err != nil {
			v.notify(status.StateError, msg.Err.Error())
			return v, nil
		}
		v.notify(status.StateNotice, "Service deleted")
		return v, nil
	}

	return v, nil
}

func (v *View) handleAdded(msg messages.ServiceAdded) tea.Cmd {
	v.refresh()
	if msg.Err != nil {
		// A failed write still keeps the record in memory
		var cmd tea.Cmd
		if msg.Service != nil {
			v.draft = domain.ServiceDraft{}
			cmd = v.backToList()
		}
		v.notify(status.StateError, msg.Err.Error())
		return cmd
	}
	if msg.Service == nil {
		v.notify(status.StateWarning, "Fill in name, description and price")
		return nil
	}
	v.draft = domain.ServiceDraft{}
	cmd := v.backToList()
	v.list.SetSelected(v.list.Count() - 1)
	v.notify(status.StateNotice, fmt.Sprintf("Added %s", msg.Service.Name))
	return cmd
}

// handleReloaded applies a load triggered by an outside write. The
// notice is only replaced when something went wrong.
func (v *View) handleReloaded(msg messages.ServicesLoaded) {
	v.refresh()
	if v.mode == ModeEdit {
		v.restoreEdit()
	}
	switch {
	case errors.Is(msg.Err, domain.ErrCorruptState):
		v.notify(status.StateWarning, "Stored service list was unreadable, starting empty")
	case msg.Err != nil:
		v.notify(status.StateError, msg.Err.Error())
	case msg.Result.Discarded > 0:
		v.notify(status.StateWarning, fmt.Sprintf("Dropped %d malformed record(s)", msg.Result.Discarded))
	}
}

// restoreEdit reopens the working copy after a reload cleared it, keeping
// what has been typed. The form closes if the service is gone.
func (v *View) restoreEdit() {
	if _, ok := v.catalogue.Editing(); ok {
		return
	}
	if !v.catalogue.BeginEdit(v.editingID) {
		v.mode = ModeList
		v.notify(status.StateWarning, "The service being edited was removed")
		return
	}
	for i, f := range domain.ServiceFields() {
		v.catalogue.EditField(f, v.editForm.Field(i).Value())
	}
}

// backToList closes any form and runs a reload deferred while it was open.
func (v *View) backToList() tea.Cmd {
	v.mode = ModeList
	if !v.pendingReload || v.catalogue == nil {
		return nil
	}
	v.pendingReload = false
	return v.reload()
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case ModeAdd:
		return v, v.handleFormKey(msg, v.addForm)
	case ModeEdit:
		return v, v.handleFormKey(msg, v.editForm)
	case ModeList:
	}

	if v.catalogue == nil {
		return v, nil
	}

	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down):
		v.list.Update(msg)
	case keymap.Matches(k, v.keymap.Add):
		v.mode = ModeAdd
		v.draft = domain.ServiceDraft{}
		v.notify(status.StateReady, "")
		return v, v.addForm.Reset()
	case keymap.Matches(k, v.keymap.Edit):
		return v, v.beginEdit()
	case keymap.Matches(k, v.keymap.Delete):
		if selected := v.list.SelectedService(); selected != nil {
			return v, v.remove(selected.ID)
		}
	case keymap.Matches(k, v.keymap.Reload):
		v.loading = true
		v.notify(status.StateLoading, "")
		return v, v.load()
	case keymap.Matches(k, v.keymap.Settings):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSettings}
		}
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}
	case keymap.Matches(k, v.keymap.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *View) beginEdit() tea.Cmd {
	selected := v.list.SelectedService()
	if selected == nil || !v.catalogue.BeginEdit(selected.ID) {
		return nil
	}
	working, _ := v.catalogue.Editing()
	v.editingID = working.ID
	for i, f := range domain.ServiceFields() {
		v.editForm.Field(i).Reset()
		v.editForm.Field(i).SetValue(working.Value(f))
	}
	v.mode = ModeEdit
	v.notify(status.StateReady, "")
	return v.editForm.FocusFirst()
}

func (v *View) handleFormKey(msg tea.KeyMsg, form *input.Form) tea.Cmd {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.NextField):
		return form.Next()
	case keymap.Matches(k, v.keymap.PrevField):
		return form.Prev()
	case keymap.Matches(k, v.keymap.Cancel):
		if v.mode == ModeEdit {
			v.catalogue.CancelEdit()
		}
		v.notify(status.StateReady, "")
		return v.backToList()
	case keymap.Matches(k, v.keymap.Submit):
		if v.mode == ModeEdit {
			return v.commit()
		}
		return v.add(v.draft)
	}

	cmd := form.Update(msg)
	field := domain.ServiceFields()[form.FocusIndex()]
	value := form.Focused().Value()
	if v.mode == ModeEdit {
		v.catalogue.EditField(field, value)
	} else {
		v.draft.Set(field, value)
	}
	return cmd
}

// refresh rereads the list from the catalogue.
func (v *View) refresh() {
	if v.catalogue == nil {
		return
	}
	v.list.SetServices(v.catalogue.List())
}

func (v *View) notify(state status.State, message string) {
	v.state = state
	v.notice = message
}

// View renders the services view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Services"))
	b.WriteString("\n\n")

	if v.catalogue == nil {
		b.WriteString(v.styles.Error.Render("Error: service catalogue not available"))
		return b.String()
	}

	switch v.mode {
	case ModeAdd:
		b.WriteString(v.styles.Subtitle.Render("New service"))
		b.WriteString("\n\n")
		b.WriteString(v.addForm.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[tab] next field  [enter] add  [esc] cancel"))
		return b.String()
	case ModeEdit:
		b.WriteString(v.styles.Subtitle.Render("Edit service"))
		b.WriteString("\n\n")
		b.WriteString(v.editForm.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[tab] next field  [enter] save  [esc] discard"))
		return b.String()
	case ModeList:
	}

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading services..."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(v.list.View())
		b.WriteString("\n\n")
	}
	if v.state == status.StateWarning && v.notice != "" {
		b.WriteString(v.styles.Warning.Render(v.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[a] add  [e] edit  [d] delete  [r] reload  [s] settings  [?] help  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// Leave room for title, help and status bar
	v.list.SetDimensions(width, height-6)
	v.addForm.SetWidth(width)
	v.editForm.SetWidth(width)
}

// Mode returns what the view is doing.
func (v *View) Mode() Mode {
	return v.mode
}

// Services returns the listed services.
func (v *View) Services() []domain.Service {
	return v.list.Services()
}

// SelectedIndex returns the cursor position.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Count returns the number of listed services.
func (v *View) Count() int {
	return v.list.Count()
}

// Draft returns the add form values.
func (v *View) Draft() domain.ServiceDraft {
	return v.draft
}

// Status returns the state and notice for the status bar.
func (v *View) Status() (status.State, string) {
	return v.state, v.notice
}

// Hints returns the keybindings relevant to the current mode.
func (v *View) Hints() []key.Binding {
	if v.mode == ModeList {
		return v.keymap.ListHelp()
	}
	return v.keymap.FormHelp()
}
