package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vpinfe/vpinfe/internal/ipc"
	"github.com/vpinfe/vpinfe/internal/managerui"
	"github.com/vpinfe/vpinfe/internal/platform"
	"github.com/vpinfe/vpinfe/internal/settings"
)

// Options configures the terminal settings editor.
type Options struct {
	Store   *settings.Store
	Library managerui.Library

	// Client talks to a running shell; nil disables status and reload.
	Client *ipc.Client
	// Displays lists attached displays for the Monitors tab.
	Displays func() ([]platform.Display, error)
}

// Run starts the editor and blocks until the user quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("config editor requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if opts.Store == nil {
		return errors.New("no settings loaded")
	}

	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// editorCommand splits $EDITOR (or $VISUAL) into argv, defaulting to vi.
func editorCommand(path string) []string {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		parts = []string{"vi"}
	}
	return append(parts, path)
}
