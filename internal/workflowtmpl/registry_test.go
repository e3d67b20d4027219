package workflowtmpl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRegistryLoadsBuiltins(t *testing.T) {
	r, err := NewRegistry(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	for _, id := range []string{"release", "content-drop"} {
		tmpl, ok := r.Get(id)
		if !ok {
			t.Fatalf("builtin %q not loaded", id)
		}
		if len(tmpl.Tasks) == 0 {
			t.Errorf("builtin %q has no tasks", id)
		}
	}
}

func TestNewRegistryLoadsDirectoryTemplates(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "tour.yaml", `
id: tour
name: Tour Announcement
tasks:
  - Book the venues
  - Announce the dates
`)
	// Broken and incomplete files are skipped, not fatal.
	write(t, dir, "broken.yaml", "{{{not yaml")
	write(t, dir, "no-tasks.yaml", "id: empty\nname: Empty\n")
	write(t, dir, "notes.txt", "not a template")

	r, err := NewRegistry(dir)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	tmpl, ok := r.Get("tour")
	if !ok {
		t.Fatal("tour template not loaded")
	}
	if len(tmpl.Tasks) != 2 || tmpl.Tasks[0] != "Book the venues" {
		t.Errorf("tour tasks: %v", tmpl.Tasks)
	}
	if _, ok := r.Get("empty"); ok {
		t.Error("template without tasks must be skipped")
	}

	ids := r.IDs()
	if len(ids) != 3 { // release, content-drop, tour
		t.Errorf("ids: %v", ids)
	}
}

func TestDirectoryTemplateOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "release.yaml", `
id: release
name: Custom Release
tasks:
  - Only one step
`)

	r, err := NewRegistry(dir)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	tmpl, ok := r.Get("release")
	if !ok {
		t.Fatal("release template missing")
	}
	if tmpl.Name != "Custom Release" || len(tmpl.Tasks) != 1 {
		t.Errorf("builtin not overridden: %+v", tmpl)
	}
}

func TestReloadPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRegistry(dir)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	if _, ok := r.Get("tour"); ok {
		t.Fatal("tour should not exist yet")
	}

	write(t, dir, "tour.yaml", "id: tour\nname: Tour\ntasks:\n  - Book the venues\n")
	if err := r.reload(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if _, ok := r.Get("tour"); !ok {
		t.Error("tour not loaded after reload")
	}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}
