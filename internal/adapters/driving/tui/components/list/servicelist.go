// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/carelist/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/carelist/internal/core/domain"
)

// ServiceList displays services in a navigable list.
type ServiceList struct {
	services []domain.Service
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewServiceList creates a new service list component.
func NewServiceList(s *styles.Styles) *ServiceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ServiceList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Init initialises the service list.
func (l *ServiceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *ServiceList) Update(msg tea.Msg) (*ServiceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the service list.
func (l *ServiceList) View() string {
	if len(l.services) == 0 {
		return l.styles.Muted.Render("No services yet. Press 'a' to add one.")
	}

	lines := make([]string, 0, len(l.services)*2+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Services (%d)", len(l.services))), "")

	// Each service takes two lines
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.services) {
		end = len(l.services)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderService(i, &l.services[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *ServiceList) renderService(index int, svc *domain.Service) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	maxNameLen := l.width - 20
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	name := truncate(svc.Name, maxNameLen)
	price := svc.DisplayPrice()

	var nameLine string
	if index == l.selected {
		nameLine = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, price))
	} else {
		nameLine = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
			l.styles.Price.Render(price)
	}

	maxDescLen := l.width - 6
	if maxDescLen < 20 {
		maxDescLen = 20
	}
	descLine := l.styles.Muted.Render("    " + truncate(svc.Description, maxDescLen))

	return nameLine + "\n" + descLine
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// SetServices replaces the listed services, keeping the cursor in range.
func (l *ServiceList) SetServices(services []domain.Service) {
	l.services = services
	if l.selected >= len(services) {
		l.selected = len(services) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Services returns the listed services.
func (l *ServiceList) Services() []domain.Service {
	return l.services
}

// Selected returns the index of the selected service.
func (l *ServiceList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *ServiceList) SetSelected(index int) {
	if index >= 0 && index < len(l.services) {
		l.selected = index
	}
}

// SelectedService returns the currently selected service, or nil if none.
func (l *ServiceList) SelectedService() *domain.Service {
	if len(l.services) == 0 || l.selected < 0 || l.selected >= len(l.services) {
		return nil
	}
	return &l.services[l.selected]
}

// MoveUp moves selection up.
func (l *ServiceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ServiceList) MoveDown() {
	if l.selected < len(l.services)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ServiceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of services.
func (l *ServiceList) Count() int {
	return len(l.services)
}

// IsEmpty returns whether the list is empty.
func (l *ServiceList) IsEmpty() bool {
	return len(l.services) == 0
}
