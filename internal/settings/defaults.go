package settings

import "sort"

// Section names used by the shell and the manager UI.
const (
	SectionSettings = "Settings"
	SectionDisplays = "Displays"
	SectionNetwork  = "Network"
	SectionInput    = "Input"
	SectionLogger   = "Logger"
	SectionMedia    = "Media"
)

// Network defaults.
const (
	DefaultThemeAssetsPort = 8000
	DefaultManagerUIPort   = 8001
)

type defaultEntry struct {
	section string
	key     string
	value   string
}

// defaults seeds a first-run settings file. Order is the on-disk order.
var defaults = []defaultEntry{
	{SectionSettings, "vpxbinpath", ""},
	{SectionSettings, "tablerootdir", ""},
	{SectionSettings, "theme", ""},
	{SectionSettings, "startup_collection", ""},
	{SectionDisplays, "bgscreenid", ""},
	{SectionDisplays, "dmdscreenid", ""},
	{SectionDisplays, "tablescreenid", "0"},
	{SectionNetwork, "themeassetsport", "8000"},
	{SectionNetwork, "manageruiport", "8001"},
	{SectionInput, "joyexit", ""},
	{SectionLogger, "level", "info"},
	{SectionLogger, "console", "1"},
	{SectionMedia, "tabletype", "table"},
}

// seedDefaults writes the defaults in declaration order.
func (s *Store) seedDefaults() {
	for _, d := range defaults {
		s.Set(d.section, d.key, d.value)
	}
}

func sortedStrings(in []string) []string {
	sort.Strings(in)
	return in
}
