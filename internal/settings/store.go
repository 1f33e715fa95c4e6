package settings

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

func init() {
	// Match the "key = value" layout other tools write into vpinfe.ini.
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

var loadOptions = ini.LoadOptions{
	InsensitiveKeys:         true,
	IgnoreInlineComment:     true,
	SkipUnrecognizableLines: true,
}

// Snapshot is a full set of edited values keyed by section, then key.
type Snapshot map[string]map[string]string

// Store is the ordered INI settings file. Sections and keys keep file order.
type Store struct {
	path string
	file *ini.File
}

// New returns an empty store that will be written to path on Save.
func New(path string) *Store {
	return &Store{path: path, file: ini.Empty(loadOptions)}
}

// Load reads the settings file at path.
func Load(path string) (*Store, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings %s: %w", path, err)
	}
	return &Store{path: path, file: f}, nil
}

// LoadOrDefault reads path, or returns a store seeded with first-run defaults when the
// file does not exist yet. The seeded store is not written until Save.
func LoadOrDefault(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s := New(path)
			s.seedDefaults()
			return s, nil
		}
		return nil, fmt.Errorf("failed to stat settings %s: %w", path, err)
	}
	return Load(path)
}

// Parse reads settings from r. The returned store has no path.
func Parse(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &Store{file: f}, nil
}

// Path returns the file the store saves to.
func (s *Store) Path() string {
	return s.path
}

// Sections returns section names in file order, without the implicit DEFAULT section.
func (s *Store) Sections() []string {
	var names []string
	for _, name := range s.file.SectionStrings() {
		if name == ini.DefaultSection {
			continue
		}
		names = append(names, name)
	}
	return names
}

// HasSection reports whether section exists.
func (s *Store) HasSection(section string) bool {
	_, err := s.file.GetSection(section)
	return err == nil
}

// Keys returns the keys of section in file order.
func (s *Store) Keys(section string) []string {
	sec, err := s.file.GetSection(section)
	if err != nil {
		return nil
	}
	return sec.KeyStrings()
}

// Get returns the raw value of section.key.
func (s *Store) Get(section, key string) (string, bool) {
	sec, err := s.file.GetSection(section)
	if err != nil || !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

// Value returns section.key, or def when the key is missing.
func (s *Store) Value(section, key, def string) string {
	if v, ok := s.Get(section, key); ok {
		return v
	}
	return def
}

// Int returns section.key parsed as an integer, or def when missing or malformed.
func (s *Store) Int(section, key string, def int) int {
	v, ok := s.Get(section, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Set stores value under section.key, creating the section when needed.
func (s *Store) Set(section, key, value string) {
	s.file.Section(section).Key(key).SetValue(value)
}

// Apply writes every value of snap into the store. Keys not present in snap are
// left untouched.
func (s *Store) Apply(snap Snapshot) {
	for _, section := range snap.sectionOrder(s) {
		for _, key := range snap.keyOrder(s, section) {
			s.Set(section, key, snap[section][key])
		}
	}
}

// Snapshot copies the current values of every section.
func (s *Store) Snapshot() Snapshot {
	snap := make(Snapshot)
	for _, section := range s.Sections() {
		values := make(map[string]string)
		for _, key := range s.Keys(section) {
			values[key], _ = s.Get(section, key)
		}
		snap[section] = values
	}
	return snap
}

// WriteTo writes the store in INI format.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	return s.file.WriteTo(w)
}

// Save flushes the whole store to its path.
func (s *Store) Save() error {
	if s.path == "" {
		return fmt.Errorf("settings store has no path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	if err := s.file.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", s.path, err)
	}
	return nil
}

// sectionOrder lists snapshot sections with existing ones first, in store
// order, and new ones after in sorted order.
func (snap Snapshot) sectionOrder(s *Store) []string {
	var order []string
	seen := make(map[string]bool)
	for _, name := range s.Sections() {
		if _, ok := snap[name]; ok {
			order = append(order, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range snap {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	return append(order, sortedStrings(rest)...)
}

func (snap Snapshot) keyOrder(s *Store, section string) []string {
	values := snap[section]
	var order []string
	seen := make(map[string]bool)
	for _, key := range s.Keys(section) {
		if _, ok := values[key]; ok {
			order = append(order, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range values {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	return append(order, sortedStrings(rest)...)
}
