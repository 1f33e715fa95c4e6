package managerui

import (
	"strings"
	"unicode"

	"github.com/vpinfe/vpinfe/internal/settings"
)

// labels are the friendly names of well-known keys.
var labels = map[string]string{
	// [Settings] paths
	"vpxbinpath":   "VPX Executable Path",
	"vpximagepath": "VPX Screenshots Dir",
	"vpxinipath":   "VPX Ini Path",
	"tablerootdir": "Tables Directory",
	"romrootdir":   "ROMs Directory",
	"pinmamepath":  "PinMAME Directory",
	"img_dir":      "Frontend Media Dir",
	"alt_exe":      "Alternate Launcher Exe",
	"vpx_args":     "VPX Launch Arguments",

	// [Settings] options
	"startup_collection": "Startup Collection",
	"theme":              "Active Theme",
	"loglevel":           "Log Verbosity",

	// [Displays]
	"display":           "Playfield Monitor Index",
	"rotation":          "Playfield Rotation (0/90/270)",
	"backglass_display": "Backglass Monitor Index",
	"dmd_display":       "DMD Monitor Index",
	"tableorientation":  "Table Orientation",
	"bgscreenid":        "Backglass Screen",
	"dmdscreenid":       "DMD Screen",
	"tablescreenid":     "Table Screen",

	// [Network]
	"port":            "Web Server Port",
	"manageruiport":   "Manager UI Port",
	"themeassetsport": "Theme Assets Port",
}

var sectionIcons = map[string]string{
	settings.SectionSettings: "folder_open",
	settings.SectionInput:    "sports_esports",
	settings.SectionLogger:   "terminal",
	settings.SectionMedia:    "perm_media",
	settings.SectionDisplays: "monitor",
	settings.SectionNetwork:  "lan",
}

// ignoredSections are kept in the file but never shown.
var ignoredSections = map[string]bool{
	"VPSdb":    true,
	"Generate": true,
}

// Label returns the friendly name for key: "some_key-name" becomes
// "Some Key Name" when no name is registered.
func Label(key string) string {
	if l, ok := labels[strings.ToLower(key)]; ok {
		return l
	}
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// SectionIcon returns the Material icon name for a section tab.
func SectionIcon(section string) string {
	if icon, ok := sectionIcons[section]; ok {
		return icon
	}
	return "settings"
}

// Ignored reports whether a section is hidden from the panel.
func Ignored(section string) bool {
	return ignoredSections[section]
}

// VisibleSections lists the store's sections the panel edits, in file order.
func VisibleSections(store *settings.Store) []string {
	var out []string
	for _, s := range store.Sections() {
		if !Ignored(s) {
			out = append(out, s)
		}
	}
	return out
}
