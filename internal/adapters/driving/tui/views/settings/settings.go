// Package settings provides the storage settings view for the TUI.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionBackend
	SectionDataDir
	SectionKey
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

const overviewItems = 3

// View is the storage settings view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	err      error
	saved    bool

	// Navigation state
	section  Section
	selected int

	// Text inputs for the data directory and slot key
	dataDirInput textinput.Model
	keyInput     textinput.Model

	// Dimensions
	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	dataDirInput := textinput.New()
	dataDirInput.Placeholder = "~/.carelist/data"
	dataDirInput.CharLimit = 1024

	keyInput := textinput.New()
	keyInput.Placeholder = domain.DefaultStorageKey
	keyInput.CharLimit = 128

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		dataDirInput:    dataDirInput,
		keyInput:        keyInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = true
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == keyEsc {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewServices}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionBackend:
		return v.handleBackendKeys(msg)
	case SectionDataDir:
		return v.handleInputKeys(msg, &v.dataDirInput, v.setDataDir)
	case SectionKey:
		return v.handleInputKeys(msg, &v.keyInput, v.setKey)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.settings == nil {
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < overviewItems-1 {
			v.selected++
		}
	case keyEnter:
		switch v.selected {
		case 0:
			v.section = SectionBackend
			v.selected = v.backendIndex()
		case 1:
			v.section = SectionDataDir
			v.dataDirInput.SetValue(v.settings.Storage.DataDir)
			return v, v.dataDirInput.Focus()
		case 2:
			v.section = SectionKey
			v.keyInput.SetValue(v.settings.Storage.Key)
			return v, v.keyInput.Focus()
		}
	}
	return v, nil
}

func (v *View) handleBackendKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	backends := domain.AllStorageBackends()

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(backends)-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < len(backends) {
			return v, v.setBackend(backends[v.selected])
		}
	}
	return v, nil
}

func (v *View) handleInputKeys(
	msg tea.KeyMsg, in *textinput.Model, save func(string) tea.Cmd,
) (*View, tea.Cmd) {
	if msg.String() == keyEnter {
		return v, save(in.Value())
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return v, cmd
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.dataDirInput.Blur()
	v.keyInput.Blur()
}

// Commands to update settings.

func (v *View) setBackend(backend domain.StorageBackend) tea.Cmd {
	return v.save(func(svc driving.SettingsService) error {
		return svc.SetStorageBackend(backend)
	})
}

func (v *View) setDataDir(dir string) tea.Cmd {
	return v.save(func(svc driving.SettingsService) error {
		return svc.SetDataDir(strings.TrimSpace(dir))
	})
}

func (v *View) setKey(key string) tea.Cmd {
	return v.save(func(svc driving.SettingsService) error {
		return svc.SetStorageKey(strings.TrimSpace(key))
	})
}

func (v *View) save(apply func(driving.SettingsService) error) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Err: apply(v.settingsService)}
	}
}

func (v *View) backendIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, b := range domain.AllStorageBackends() {
		if b == v.settings.Storage.Backend {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionBackend:
		b.WriteString(v.renderBackendSelect())
	case SectionDataDir:
		b.WriteString(v.renderInput("Data Directory", v.dataDirInput))
	case SectionKey:
		b.WriteString(v.renderInput("Storage Key", v.keyInput))
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	dataDir := v.settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}

	items := []struct {
		label string
		value string
	}{
		{label: "Storage Backend", value: v.settings.Storage.Backend.Description()},
		{label: "Data Directory", value: dataDir},
		{label: "Storage Key", value: v.settings.Storage.Key},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
		b.WriteString("\n")
	}
	if v.saved {
		b.WriteString(v.styles.Muted.Render("Saved. Restart carelist to use the new storage settings."))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderBackendSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Storage Backend"))
	b.WriteString("\n\n")

	for i, backend := range domain.AllStorageBackends() {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		current := ""
		if backend == v.settings.Storage.Backend {
			current = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, backend.Description(), current)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")

		if !backend.IsDurable() {
			b.WriteString(v.styles.Muted.Render("    Services are lost when carelist exits"))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (v *View) renderInput(title string, in textinput.Model) string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(v.styles.FocusedInputField.Render(in.View()))
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] change  [esc] back to services")
	case SectionBackend:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case SectionDataDir, SectionKey:
		return v.styles.Help.Render("[enter] save  [esc] back")
	}
	return ""
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	v.dataDirInput.Width = inputWidth
	v.keyInput.Width = inputWidth
}

// Reset returns the view to its overview.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.saved = false
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
