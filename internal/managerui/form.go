package managerui

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vpinfe/vpinfe/internal/settings"
)

// Field is one editable settings value.
type Field struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Value   string   `json:"value"`
	Checked bool     `json:"checked,omitempty"`
	Options []string `json:"options,omitempty"`
	WidthPx int      `json:"width_px,omitempty"`
}

// Section is one tab of the panel.
type Section struct {
	Name   string  `json:"name"`
	Icon   string  `json:"icon"`
	Fields []Field `json:"fields"`
}

// Form is the classified view of a settings store.
type Form struct {
	Sections []Section `json:"sections"`
}

// BuildForm classifies every visible value of store.
func BuildForm(store *settings.Store, lib Library, logger *slog.Logger) Form {
	if logger == nil {
		logger = slog.Default()
	}
	var form Form
	for _, name := range VisibleSections(store) {
		sec := Section{Name: name, Icon: SectionIcon(name)}
		for _, key := range store.Keys(name) {
			value, _ := store.Get(name, key)
			f := Field{
				Key:   key,
				Label: Label(key),
				Kind:  Classify(name, key, value),
				Value: value,
			}
			switch f.Kind {
			case KindSwitch:
				f.Checked, _ = ParseBool(value)
			case KindDropdown:
				f.Options = dropdownOptions(lib, name, key, value, logger)
			default:
				f.WidthPx = WidthPx(f.Label, value)
			}
			sec.Fields = append(sec.Fields, f)
		}
		form.Sections = append(form.Sections, sec)
	}
	return form
}

// Edits is the JSON body of a save: section -> key -> string, bool or number.
type Edits map[string]map[string]any

// Snapshot converts edits to stored strings. Booleans keep the token family
// of the value currently in store.
func (e Edits) Snapshot(store *settings.Store) (settings.Snapshot, error) {
	snap := make(settings.Snapshot, len(e))
	for section, values := range e {
		out := make(map[string]string, len(values))
		for key, raw := range values {
			switch v := raw.(type) {
			case string:
				out[key] = v
			case bool:
				prev, _ := store.Get(section, key)
				out[key] = FormatBool(v, prev)
			case float64:
				out[key] = strconv.FormatFloat(v, 'f', -1, 64)
			case nil:
				out[key] = ""
			default:
				return nil, fmt.Errorf("%s.%s: unsupported value %T", section, key, raw)
			}
		}
		snap[section] = out
	}
	return snap, nil
}
