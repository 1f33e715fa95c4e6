package picker

import (
	"errors"

	"github.com/sqweek/dialog"
)

// NativeChooser opens the platform's file and folder dialogs.
type NativeChooser struct {
	StartDir string
}

func (n NativeChooser) Choose(mode Mode, title string) (string, error) {
	var (
		path string
		err  error
	)
	if mode == ModeFolder {
		b := dialog.Directory().Title(title)
		if n.StartDir != "" {
			b = b.SetStartDir(n.StartDir)
		}
		path, err = b.Browse()
	} else {
		b := dialog.File().Title(title)
		if n.StartDir != "" {
			b = b.SetStartDir(n.StartDir)
		}
		path, err = b.Load()
	}
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}
	return path, err
}
