package settings

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleINI = `[Settings]
vpxbinpath = /opt/vpx/VPinballX
theme = carousel

[Displays]
bgscreenid = 1
dmdscreenid =
tablescreenid = 0

[VPSdb]
last = 2024
`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_PreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vpinfe.ini")
	writeFile(t, path, sampleINI)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	got := strings.Join(s.Sections(), ",")
	if got != "Settings,Displays,VPSdb" {
		t.Fatalf("Sections() = %q", got)
	}
	keys := strings.Join(s.Keys("Displays"), ",")
	if keys != "bgscreenid,dmdscreenid,tablescreenid" {
		t.Fatalf("Keys(Displays) = %q", keys)
	}
	if v, ok := s.Get("Displays", "dmdscreenid"); !ok || v != "" {
		t.Fatalf("Get(dmdscreenid) = %q, %v; want empty, true", v, ok)
	}
}

func TestIntAndValueDefaults(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleINI))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got := s.Int("Displays", "bgscreenid", 9); got != 1 {
		t.Fatalf("Int(bgscreenid) = %d, want 1", got)
	}
	if got := s.Int("Settings", "theme", 9); got != 9 {
		t.Fatalf("Int(theme) = %d, want default 9", got)
	}
	if got := s.Int("Network", "themeassetsport", DefaultThemeAssetsPort); got != DefaultThemeAssetsPort {
		t.Fatalf("Int(missing) = %d, want %d", got, DefaultThemeAssetsPort)
	}
	if got := s.Value("Settings", "missing", "x"); got != "x" {
		t.Fatalf("Value(missing) = %q, want x", got)
	}
}

func TestApplyAndSave_LastWriteWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vpinfe.ini")
	writeFile(t, path, sampleINI)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	s.Apply(Snapshot{
		"Settings": {"theme": "slider", "tablerootdir": "/tables"},
		"Input":    {"joyexit": "8"},
	})
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if v, _ := reloaded.Get("Settings", "theme"); v != "slider" {
		t.Fatalf("theme = %q, want slider", v)
	}
	if v, _ := reloaded.Get("Settings", "vpxbinpath"); v != "/opt/vpx/VPinballX" {
		t.Fatalf("untouched key changed: %q", v)
	}
	if got := strings.Join(reloaded.Keys("Settings"), ","); got != "vpxbinpath,theme,tablerootdir" {
		t.Fatalf("Keys(Settings) = %q", got)
	}
	if got := strings.Join(reloaded.Sections(), ","); got != "Settings,Displays,VPSdb,Input" {
		t.Fatalf("Sections() = %q", got)
	}
}

func TestApply_OverwritesExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vpinfe.ini")
	writeFile(t, path, sampleINI)

	session, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	snap := session.Snapshot()

	external, _ := Load(path)
	external.Set("Settings", "theme", "external")
	if err := external.Save(); err != nil {
		t.Fatalf("external Save() error: %v", err)
	}

	session.Apply(snap)
	if err := session.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	reloaded, _ := Load(path)
	if v, _ := reloaded.Get("Settings", "theme"); v != "carousel" {
		t.Fatalf("theme = %q, want carousel", v)
	}
}

func TestLoadOrDefault_SeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "vpinfe.ini")

	s, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if got := s.Int(SectionNetwork, "manageruiport", 0); got != DefaultManagerUIPort {
		t.Fatalf("manageruiport = %d, want %d", got, DefaultManagerUIPort)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("seeded store should not be written before Save, stat err = %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Save() did not create file: %v", err)
	}
}

func TestSave_WithoutPathFails(t *testing.T) {
	s, _ := Parse(strings.NewReader(sampleINI))
	if err := s.Save(); err == nil {
		t.Fatal("Save() without path should fail")
	}
}

func TestWriteTo_UsesSpacedEquals(t *testing.T) {
	s := New("")
	s.Set("Network", "themeassetsport", "8000")

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}
	if !strings.Contains(buf.String(), "themeassetsport = 8000") {
		t.Fatalf("WriteTo() output = %q", buf.String())
	}
}

func TestMarshalYAML_KeepsOrderAndStrings(t *testing.T) {
	s, _ := Parse(strings.NewReader(sampleINI))

	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("yaml.Marshal() error: %v", err)
	}
	text := string(out)
	if strings.Index(text, "Settings:") > strings.Index(text, "Displays:") {
		t.Fatalf("section order lost:\n%s", text)
	}
	if !strings.Contains(text, `bgscreenid: "1"`) {
		t.Fatalf("numeric value not quoted as string:\n%s", text)
	}
}

func TestCollectionNamesAndThemes(t *testing.T) {
	dir := t.TempDir()
	paths := PathsIn(dir)

	names, err := CollectionNames(paths.Collections)
	if err != nil || names != nil {
		t.Fatalf("CollectionNames(missing) = %v, %v", names, err)
	}
	writeFile(t, paths.Collections, "[Favorites]\ntables = a,b\n\n[Williams]\ntables = c\n")
	names, err = CollectionNames(paths.Collections)
	if err != nil {
		t.Fatalf("CollectionNames() error: %v", err)
	}
	if got := strings.Join(names, ","); got != "Favorites,Williams" {
		t.Fatalf("CollectionNames() = %q", got)
	}

	for _, name := range []string{"slider", "carousel"} {
		if err := os.MkdirAll(filepath.Join(paths.Themes, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, filepath.Join(paths.Themes, "README.txt"), "x")
	themes, err := InstalledThemes(paths.Themes)
	if err != nil {
		t.Fatalf("InstalledThemes() error: %v", err)
	}
	if got := strings.Join(themes, ","); got != "carousel,slider" {
		t.Fatalf("InstalledThemes() = %q", got)
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	td := t.TempDir()
	t.Setenv(ConfigDirEnv, td)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != td {
		t.Fatalf("ConfigDir() = %q, want %q", dir, td)
	}
	if got := PathsIn(dir).Settings; got != filepath.Join(td, "vpinfe.ini") {
		t.Fatalf("Settings path = %q", got)
	}
}
