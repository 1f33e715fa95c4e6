package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vpinfe/vpinfe/internal/platform"
	"github.com/vpinfe/vpinfe/internal/settings"
	"github.com/vpinfe/vpinfe/internal/shell"
)

// displayItem is a list item for one attached display.
type displayItem struct {
	index   int
	display platform.Display
	roles   []string
}

func (i displayItem) Title() string {
	title := fmt.Sprintf("%d  %s", i.index, i.display.Name)
	if len(i.roles) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("·") + " " + title
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✓") + " " + title
}

func (i displayItem) Description() string {
	b := i.display.Bounds
	desc := fmt.Sprintf("%dx%d+%d+%d", b.Width, b.Height, b.X, b.Y)
	if len(i.roles) > 0 {
		desc += "  " + strings.Join(i.roles, ", ")
	}
	return desc
}

func (i displayItem) FilterValue() string { return i.display.Name }

// DisplaysTab lists attached displays and the windows assigned to each.
type DisplaysTab struct {
	list   list.Model
	source func() ([]platform.Display, error)
	err    error
	width  int
	height int
}

// NewDisplaysTab creates the tab and loads displays from source.
func NewDisplaysTab(store *settings.Store, source func() ([]platform.Display, error)) DisplaysTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = displaysTabName
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	d := DisplaysTab{list: l, source: source}
	d.Reload(store)
	return d
}

// Reload re-enumerates displays and recomputes role assignments.
func (d *DisplaysTab) Reload(store *settings.Store) {
	if d.source == nil {
		d.err = platform.ErrUnsupported
		d.list.SetItems(nil)
		return
	}
	displays, err := d.source()
	d.err = err
	d.list.SetItems(buildDisplayItems(displays, store))
}

// buildDisplayItems tags each display with the window roles that target it.
func buildDisplayItems(displays []platform.Display, store *settings.Store) []list.Item {
	roles := make(map[int][]string)
	if store != nil {
		for _, role := range shell.Roles() {
			raw, ok := store.Get(settings.SectionDisplays, role.Key)
			if !ok {
				continue
			}
			if idx, ok := shell.ParseMonitorIndex(raw); ok {
				roles[idx] = append(roles[idx], role.Name)
			}
		}
	}

	items := make([]list.Item, 0, len(displays))
	for i, d := range displays {
		items = append(items, displayItem{index: i, display: d, roles: roles[i]})
	}
	return items
}

// Update handles messages for the displays tab.
func (d DisplaysTab) Update(msg tea.Msg) (DisplaysTab, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		d.width = msg.Width
		d.height = msg.Height
		d.list.SetSize(d.width, d.height)
		return d, nil
	}

	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

// View renders the tab.
func (d DisplaysTab) View() string {
	if d.width == 0 || d.height == 0 {
		return ""
	}
	if d.err != nil && len(d.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(d.width).
			Height(d.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("Displays unavailable: " + d.err.Error())
	}
	return d.list.View()
}
