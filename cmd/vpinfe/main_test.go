package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vpinfe/vpinfe/internal/ipc"
	"github.com/vpinfe/vpinfe/internal/settings"
)

func sampleStore(t *testing.T) *settings.Store {
	t.Helper()
	store, err := settings.Parse(strings.NewReader("[Settings]\ntheme = carousel\n\n[Displays]\ntablescreenid = 0\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return store
}

func TestPrintSettingsFormats(t *testing.T) {
	store := sampleStore(t)

	var ini bytes.Buffer
	if err := printSettings(&ini, store, "ini"); err != nil {
		t.Fatalf("ini: %v", err)
	}
	if !strings.Contains(ini.String(), "theme = carousel") {
		t.Fatalf("ini output = %q", ini.String())
	}

	var yml bytes.Buffer
	if err := printSettings(&yml, store, "yaml"); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(yml.String(), "Displays:") || !strings.Contains(yml.String(), `tablescreenid: "0"`) {
		t.Fatalf("yaml output = %q", yml.String())
	}

	var js bytes.Buffer
	if err := printSettings(&js, store, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]map[string]string
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("json output not decodable: %v", err)
	}
	if decoded["Settings"]["theme"] != "carousel" {
		t.Fatalf("decoded = %v", decoded)
	}

	if err := printSettings(&js, store, "toml"); err == nil {
		t.Fatalf("unknown format should fail")
	}
}

func TestLoadSettingsFirstRun(t *testing.T) {
	dir := t.TempDir()

	paths, store, err := loadSettings(dir)
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}
	if paths.Settings != filepath.Join(dir, "vpinfe.ini") {
		t.Fatalf("Settings path = %q", paths.Settings)
	}
	if got := store.Int(settings.SectionNetwork, "manageruiport", 0); got != settings.DefaultManagerUIPort {
		t.Fatalf("manageruiport = %d", got)
	}
	if _, err := os.Stat(paths.Settings); !os.IsNotExist(err) {
		t.Fatalf("loadSettings should not write the file, stat err = %v", err)
	}

	if err := ensureSettingsFile(store); err != nil {
		t.Fatalf("ensureSettingsFile() error = %v", err)
	}
	if _, err := os.Stat(paths.Settings); err != nil {
		t.Fatalf("defaults not written: %v", err)
	}
}

func TestEnsureSettingsFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vpinfe.ini")
	if err := os.WriteFile(path, []byte("[Settings]\ntheme = mine\n"), 0644); err != nil {
		t.Fatal(err)
	}
	store := settings.New(path)
	store.Set("Settings", "theme", "other")

	if err := ensureSettingsFile(store); err != nil {
		t.Fatalf("ensureSettingsFile() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "mine") {
		t.Fatalf("existing file overwritten: %q", data)
	}
}

func TestResolvePathsUsesEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(settings.ConfigDirEnv, dir)

	paths, err := resolvePaths("")
	if err != nil {
		t.Fatalf("resolvePaths() error = %v", err)
	}
	if paths.Dir != dir {
		t.Fatalf("Dir = %q, want %q", paths.Dir, dir)
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		Running:    true,
		ManagerURL: "http://localhost:8001",
		Windows: []ipc.WindowInfo{
			{Name: "table", Width: 3840, Height: 2160, Overlay: "hidden", Primary: true},
		},
	})
	out := buf.String()
	for _, want := range []string{"running:        true", "windows:        1", "table  3840x2160+0+0 overlay=hidden (primary)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintDisplays(t *testing.T) {
	var buf bytes.Buffer
	printDisplays(&buf, []ipc.DisplayInfo{{Index: 1, Name: "DP-1", X: 1920, Width: 1280, Height: 1024}})
	if got := buf.String(); !strings.HasPrefix(got, "1  DP-1") || !strings.Contains(got, "1280x1024+1920+0") {
		t.Fatalf("output = %q", got)
	}
}

func TestParseNoArgs(t *testing.T) {
	if code := parseNoArgs("reload", "", nil); code != -1 {
		t.Fatalf("no args code = %d, want -1", code)
	}
	if code := parseNoArgs("reload", "", []string{"extra"}); code != 2 {
		t.Fatalf("extra arg code = %d, want 2", code)
	}
	if code := parseNoArgs("reload", "", []string{"--help"}); code != 0 {
		t.Fatalf("help code = %d, want 0", code)
	}
}
