package tui

import (
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vpinfe/vpinfe/internal/ipc"
	"github.com/vpinfe/vpinfe/internal/managerui"
	"github.com/vpinfe/vpinfe/internal/platform"
	"github.com/vpinfe/vpinfe/internal/settings"
)

// editorFinishedMsg is sent when the external editor exits.
type editorFinishedMsg struct{ err error }

// model is the root bubbletea model for the TUI.
type model struct {
	store     *settings.Store
	lib       managerui.Library
	ipcClient *ipc.Client
	displaysF func() ([]platform.Display, error)

	// Tab navigation; the Displays tab follows the section tabs.
	activeTab int
	sections  []SectionTab
	displays  DisplaysTab

	// Save overlay
	original    string
	saveOverlay SaveOverlay

	// Shell state
	shellConnected bool
	shellWindows   int
	lastError      string

	// Terminal dimensions
	width  int
	height int
}

func newModel(opts Options) model {
	m := model{
		store:     opts.Store,
		lib:       opts.Library,
		ipcClient: opts.Client,
		displaysF: opts.Displays,
	}
	m.original = iniText(m.store)
	m.refreshShellStatus()
	m.buildTabs()
	m.displays = NewDisplaysTab(m.store, m.displaysF)
	return m
}

// buildTabs creates one tab per visible settings section.
func (m *model) buildTabs() {
	form := managerui.BuildForm(m.store, m.lib, nil)
	m.sections = make([]SectionTab, 0, len(form.Sections))
	for _, sec := range form.Sections {
		m.sections = append(m.sections, NewSectionTab(m.store, m.lib, sec))
	}
	if m.activeTab >= m.tabCount() {
		m.activeTab = 0
	}
}

func (m *model) refreshShellStatus() {
	if m.ipcClient == nil {
		return
	}
	status, err := m.ipcClient.GetStatus()
	if err != nil {
		m.shellConnected = false
		m.shellWindows = 0
		return
	}
	m.shellConnected = true
	m.shellWindows = len(status.Windows)
}

// reloadFromDisk replaces the store after an external edit.
func (m *model) reloadFromDisk() {
	store, err := settings.Load(m.store.Path())
	if err != nil {
		m.lastError = err.Error()
		return
	}
	m.lastError = ""
	m.store = store
	m.original = iniText(store)
	m.buildTabs()
	m.displays.Reload(store)
	m.resizeTabs()
}

func (m model) tabCount() int {
	return len(m.sections) + 1
}

func (m model) tabNames() []string {
	names := make([]string, 0, m.tabCount())
	for _, s := range m.sections {
		names = append(names, s.Name())
	}
	return append(names, displaysTabName)
}

func (m model) onDisplaysTab() bool {
	return m.activeTab == len(m.sections)
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// Approximate: status bar (1) + tab bar (2 with margin) + help bar (1) = 4 lines
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m *model) resizeTabs() {
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	for i := range m.sections {
		m.sections[i], _ = m.sections[i].Update(subMsg)
	}
	m.displays, _ = m.displays.Update(subMsg)
}

func (m model) capturing() bool {
	return !m.onDisplaysTab() && m.sections[m.activeTab].Editing()
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(msg, m.store, m.ipcClient, m.shellConnected)
			// After successful save, update the original snapshot
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.original = iniText(m.store)
			}
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
			m.resizeTabs()
		}
		return m, nil
	}

	// ctrl+s triggers save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		m.saveOverlay.Show(m.original, iniText(m.store))
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTabs()
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.lastError = "editor failed: " + msg.err.Error()
			return m, nil
		}
		m.reloadFromDisk()
		return m, nil
	}

	// When a form captures input, delegate all messages to it
	// (the form consumes keys; only ctrl+c escapes to quit)
	if m.capturing() {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.sections[m.activeTab], cmd = m.sections[m.activeTab].Update(msg)
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch key := km.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.activeTab = (m.activeTab + 1) % m.tabCount()
			return m, nil

		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + m.tabCount()) % m.tabCount()
			return m, nil

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if n := int(key[0] - '1'); n < m.tabCount() {
				m.activeTab = n
			}
			return m, nil

		case "E":
			argv := editorCommand(m.store.Path())
			return m, tea.ExecProcess(exec.Command(argv[0], argv[1:]...), func(err error) tea.Msg {
				return editorFinishedMsg{err: err}
			})

		case "r":
			m.refreshShellStatus()
			m.displays.Reload(m.store)
			return m, nil
		}
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	if m.onDisplaysTab() {
		m.displays, cmd = m.displays.Update(msg)
	} else {
		m.sections[m.activeTab], cmd = m.sections[m.activeTab].Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.shellConnected, m.shellWindows, m.store.Path(), m.width)
	tabBar := renderTabBar(m.tabNames(), m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)
	if m.lastError != "" {
		helpBar = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1).
			Render(m.lastError)
	}

	// Calculate content height: total - statusBar - tabBar - helpBar
	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.onDisplaysTab():
		content = m.displays.View()
	default:
		content = m.sections[m.activeTab].View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
