package managerui

import (
	"log/slog"
	"slices"

	"github.com/vpinfe/vpinfe/internal/settings"
)

// Library lists installed content offered in dropdowns.
type Library interface {
	Themes() ([]string, error)
	Collections() ([]string, error)
}

// DirLibrary reads themes and collections from the configuration directory.
type DirLibrary struct {
	Paths settings.Paths
}

func (l DirLibrary) Themes() ([]string, error) {
	return settings.InstalledThemes(l.Paths.Themes)
}

func (l DirLibrary) Collections() ([]string, error) {
	return settings.CollectionNames(l.Paths.Collections)
}

// dropdownOptions returns the choices for a dropdown key. The current value
// is appended when it is not among them.
func dropdownOptions(lib Library, section, key, value string, logger *slog.Logger) []string {
	var (
		opts []string
		err  error
	)
	if lib == nil {
		lib = emptyLibrary{}
	}
	switch {
	case section == settings.SectionSettings && key == "theme":
		opts, err = lib.Themes()
	case section == settings.SectionSettings && key == "startup_collection":
		var names []string
		names, err = lib.Collections()
		opts = append([]string{""}, names...)
	}
	if err != nil {
		logger.Warn("failed to list dropdown options", "section", section, "key", key, "error", err)
		if key == "startup_collection" {
			opts = []string{""}
		}
	}
	if value != "" && !slices.Contains(opts, value) {
		opts = append(opts, value)
	}
	return opts
}

type emptyLibrary struct{}

func (emptyLibrary) Themes() ([]string, error)      { return nil, nil }
func (emptyLibrary) Collections() ([]string, error) { return nil, nil }
