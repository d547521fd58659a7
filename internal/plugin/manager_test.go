package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, dir string, m Manifest) string {
	t.Helper()

	pluginDir := filepath.Join(root, dir)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return pluginDir
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	pluginDir := writeManifest(t, root, "desktop", Manifest{
		Name:        "desktop",
		Version:     "1.0.0",
		Description: "Speech and links",
		Executable:  "desktop",
		Actions:     []string{"speak", "open-link"},
	})

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	p := plugins[0]
	if p.Manifest.Name != "desktop" || p.Manifest.Version != "1.0.0" {
		t.Errorf("manifest = %+v", p.Manifest)
	}
	if len(p.Manifest.Actions) != 2 {
		t.Errorf("expected 2 actions, got %d", len(p.Manifest.Actions))
	}
	if p.Path != pluginDir {
		t.Errorf("path = %q, want %q", p.Path, pluginDir)
	}
	if p.Executable != filepath.Join(pluginDir, "desktop") {
		t.Errorf("executable = %q", p.Executable)
	}
}

func TestManager_List_Sorted(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		writeManifest(t, root, name, Manifest{Name: name, Executable: name, Actions: []string{"speak"}})
	}

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 3 {
		t.Fatalf("expected 3 plugins, got %d", len(plugins))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if plugins[i].Manifest.Name != want {
			t.Errorf("plugins[%d] = %q, want %q", i, plugins[i].Manifest.Name, want)
		}
	}
}

func TestManager_Find(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "b-links", Manifest{Name: "b-links", Executable: "b", Actions: []string{"open-link"}})
	writeManifest(t, root, "a-voice", Manifest{Name: "a-voice", Executable: "a", Actions: []string{"speak"}})
	writeManifest(t, root, "c-both", Manifest{Name: "c-both", Executable: "c", Actions: []string{"speak", "open-link"}})

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	p, err := manager.Find("open-link")
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}
	if p.Manifest.Name != "b-links" {
		t.Errorf("Find(open-link) = %q, want b-links", p.Manifest.Name)
	}

	if _, err := manager.Find("teleport"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Find(teleport) error = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_Get(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "my-plugin", Manifest{Name: "my-plugin", Version: "2.0.0", Executable: "bin", Actions: []string{"speak"}})

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	p, err := manager.Get("my-plugin")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if p.Manifest.Version != "2.0.0" {
		t.Errorf("version = %q, want 2.0.0", p.Manifest.Version)
	}

	if _, err := manager.Get("nonexistent-plugin"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestManager_Discover_SkipsBadPlugins(t *testing.T) {
	root := t.TempDir()

	bad := filepath.Join(root, "bad-plugin")
	if err := os.MkdirAll(bad, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, "plugin.json"), []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, root, "nameless", Manifest{Executable: "x"})
	if err := os.MkdirAll(filepath.Join(root, "no-manifest"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray-file"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed unexpectedly: %v", err)
	}
	if n := len(manager.List()); n != 0 {
		t.Fatalf("expected 0 plugins, got %d", n)
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing"))

	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on missing dir: %v", err)
	}
	if n := len(manager.List()); n != 0 {
		t.Fatalf("expected 0 plugins, got %d", n)
	}
}

func TestManager_PluginDir(t *testing.T) {
	if got := NewManager("/path/to/plugins").PluginDir(); got != "/path/to/plugins" {
		t.Errorf("PluginDir() = %q", got)
	}
}
