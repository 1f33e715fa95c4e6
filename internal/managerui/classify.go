package managerui

import (
	"strings"

	"github.com/vpinfe/vpinfe/internal/settings"
)

// Kind is the editor widget chosen for a settings value.
type Kind string

const (
	KindText         Kind = "text"
	KindSwitch       Kind = "switch"
	KindDropdown     Kind = "dropdown"
	KindFilePicker   Kind = "file"
	KindFolderPicker Kind = "folder"
)

// boolTokens maps recognised boolean spellings to their value.
var boolTokens = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true,
	"false": false, "no": false, "off": false, "0": false,
}

type sectionKey struct {
	section string
	key     string
}

// dropdownKeys hold values chosen from installed content.
var dropdownKeys = map[sectionKey]bool{
	{settings.SectionSettings, "theme"}:              true,
	{settings.SectionSettings, "startup_collection"}: true,
}

// pathRules are checked in order; the first substring found in the key wins.
var pathRules = []struct {
	substr string
	kind   Kind
}{
	{"exe", KindFilePicker},
	{"bin", KindFilePicker},
	{"path", KindFolderPicker},
	{"dir", KindFolderPicker},
}

// Classify picks the widget for section.key holding value. Precedence:
// boolean token, installed-content dropdown, path-like key, text.
func Classify(section, key, value string) Kind {
	if _, ok := ParseBool(value); ok {
		return KindSwitch
	}
	if dropdownKeys[sectionKey{section, key}] {
		return KindDropdown
	}
	lower := strings.ToLower(key)
	for _, rule := range pathRules {
		if strings.Contains(lower, rule.substr) {
			return rule.kind
		}
	}
	return KindText
}

// ParseBool reports the value of a boolean token, case-insensitively.
func ParseBool(value string) (v, ok bool) {
	v, ok = boolTokens[strings.ToLower(strings.TrimSpace(value))]
	return v, ok
}

// FormatBool spells v in the same token family as previous, so a value
// stored as "yes" is written back as "yes" or "no". Unknown families use 1/0.
func FormatBool(v bool, previous string) string {
	families := [][2]string{{"true", "false"}, {"yes", "no"}, {"on", "off"}, {"1", "0"}}
	prev := strings.TrimSpace(previous)
	for _, f := range families {
		for _, tok := range f {
			if strings.EqualFold(prev, tok) {
				out := f[1]
				if v {
					out = f[0]
				}
				return matchCase(out, prev)
			}
		}
	}
	if v {
		return "1"
	}
	return "0"
}

// matchCase copies the capitalisation style of like onto s.
func matchCase(s, like string) string {
	switch {
	case like == strings.ToUpper(like) && like != strings.ToLower(like):
		return strings.ToUpper(s)
	case len(like) > 0 && like[:1] == strings.ToUpper(like[:1]) && like[:1] != strings.ToLower(like[:1]):
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return s
}

// WidthPx sizes a text input from its content and label.
func WidthPx(label, value string) int {
	chars := max(len(value), len(label), 5)
	return max(int(float64(chars)*10*1.1), 100)
}
