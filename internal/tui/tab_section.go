package tui

import (
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vpinfe/vpinfe/internal/managerui"
	"github.com/vpinfe/vpinfe/internal/settings"
)

// SectionTab shows and edits the keys of one settings section.
type SectionTab struct {
	store   *settings.Store
	lib     managerui.Library
	section managerui.Section

	// Display dimensions
	width  int
	height int

	// Edit mode
	editing bool
	form    *huh.Form

	// Form-bound values, keyed by settings key
	texts map[string]*string
	bools map[string]*bool
}

// NewSectionTab creates a tab for a classified section.
func NewSectionTab(store *settings.Store, lib managerui.Library, section managerui.Section) SectionTab {
	return SectionTab{store: store, lib: lib, section: section}
}

// Name returns the section name.
func (t SectionTab) Name() string {
	return t.section.Name
}

// Editing reports whether the form is capturing input.
func (t SectionTab) Editing() bool {
	return t.editing
}

// Update handles messages for the tab.
func (t SectionTab) Update(msg tea.Msg) (SectionTab, tea.Cmd) {
	if t.editing {
		return t.updateEditing(msg)
	}
	return t.updateDisplay(msg)
}

func (t SectionTab) updateDisplay(msg tea.Msg) (SectionTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && len(t.section.Fields) > 0 {
			t.startEditing()
			return t, t.form.Init()
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	}
	return t, nil
}

func (t SectionTab) updateEditing(msg tea.Msg) (SectionTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			t.stopEditing()
			return t, nil
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	switch t.form.State {
	case huh.StateCompleted:
		t.applyForm()
		t.stopEditing()
		return t, nil
	case huh.StateAborted:
		t.stopEditing()
		return t, nil
	}

	return t, cmd
}

func (t *SectionTab) startEditing() {
	t.texts = make(map[string]*string)
	t.bools = make(map[string]*bool)

	var fields []huh.Field
	for _, f := range t.section.Fields {
		fields = append(fields, t.fieldFor(f))
	}

	w := t.width - 4
	if w < 40 {
		w = 40
	}

	t.form = huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(w).
		WithShowHelp(true).
		WithShowErrors(true)
	t.editing = true
}

// fieldFor builds the form control for a classified value.
func (t *SectionTab) fieldFor(f managerui.Field) huh.Field {
	switch f.Kind {
	case managerui.KindSwitch:
		v := f.Checked
		t.bools[f.Key] = &v
		return huh.NewConfirm().
			Key(f.Key).
			Title(f.Label).
			Affirmative("On").
			Negative("Off").
			Value(&v)

	case managerui.KindDropdown:
		v := f.Value
		t.texts[f.Key] = &v
		if len(f.Options) == 0 {
			return huh.NewInput().Key(f.Key).Title(f.Label).Value(&v)
		}
		return huh.NewSelect[string]().
			Key(f.Key).
			Title(f.Label).
			Options(huh.NewOptions(f.Options...)...).
			Value(&v)

	case managerui.KindFilePicker, managerui.KindFolderPicker:
		v := f.Value
		t.texts[f.Key] = &v
		folder := f.Kind == managerui.KindFolderPicker
		return huh.NewFilePicker().
			Key(f.Key).
			Title(f.Label).
			Description(displayOrDefault(f.Value, "(not set)")).
			CurrentDirectory(startDir(f.Value, folder)).
			DirAllowed(folder).
			FileAllowed(!folder).
			Value(&v)

	default:
		v := f.Value
		t.texts[f.Key] = &v
		return huh.NewInput().Key(f.Key).Title(f.Label).Value(&v)
	}
}

// applyForm writes form values back into the store. Booleans keep the
// spelling family of the stored value.
func (t *SectionTab) applyForm() {
	name := t.section.Name
	for key, v := range t.texts {
		t.store.Set(name, key, *v)
	}
	for key, v := range t.bools {
		prev, _ := t.store.Get(name, key)
		t.store.Set(name, key, managerui.FormatBool(*v, prev))
	}
	t.Refresh()
}

func (t *SectionTab) stopEditing() {
	t.editing = false
	t.form = nil
}

// Refresh reclassifies the section from the store.
func (t *SectionTab) Refresh() {
	for _, sec := range managerui.BuildForm(t.store, t.lib, nil).Sections {
		if sec.Name == t.section.Name {
			t.section = sec
			return
		}
	}
}

// View renders the tab.
func (t SectionTab) View() string {
	if t.editing && t.form != nil {
		return t.viewEditing()
	}
	return t.viewDisplay()
}

func (t SectionTab) viewDisplay() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(30).
		Align(lipgloss.Right).
		PaddingRight(2)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	lines := []string{""}
	for _, f := range t.section.Fields {
		lines = append(lines, labelStyle.Render(f.Label)+valueStyle.Render(fieldDisplay(f))+
			dimStyle.Render("  "+string(f.Kind)))
	}
	if len(t.section.Fields) == 0 {
		lines = append(lines, dimStyle.Render("  No settings in this section"))
	} else {
		lines = append(lines, "", dimStyle.Render("  Press 'e' to edit "+t.section.Name))
	}

	return lipgloss.NewStyle().
		Width(t.width).
		Height(t.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (t SectionTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing "+t.section.Name) +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(t.width).
		Height(t.height).
		Padding(1, 2).
		Render(header + "\n\n" + t.form.View())
}

func fieldDisplay(f managerui.Field) string {
	if f.Kind == managerui.KindSwitch {
		if f.Checked {
			return "on"
		}
		return "off"
	}
	return displayOrDefault(f.Value, "(not set)")
}

// startDir picks where the file picker opens: the configured folder, the
// directory of the configured file, or the home directory.
func startDir(value string, folder bool) string {
	if value != "" {
		dir := value
		if !folder {
			dir = filepath.Dir(value)
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
