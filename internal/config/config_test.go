package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sokinpui/qttools/internal/tool"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"), false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := &File{Designer: "designer", UIC: "uic", Languages: tool.DefaultLanguages}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml"), true); err == nil {
		t.Error("an explicit missing config should fail")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
designer: designer-qt6
uic: /opt/qt/bin/uic
templates_dir: templates
catalog: classes.txt
driver: survey
naming: snake
folders:
  - /work/app
  - src
languages:
  - name: python
    suffix: py
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := &File{
		Designer:     "designer-qt6",
		UIC:          "/opt/qt/bin/uic",
		TemplatesDir: filepath.Join(dir, "templates"),
		Catalog:      filepath.Join(dir, "classes.txt"),
		Driver:       "survey",
		Naming:       "snake",
		Folders:      []string{filepath.Clean("/work/app"), filepath.Join(dir, "src")},
		Languages:    []tool.Language{{Name: "python", Suffix: ".py"}},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsBadLanguages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("languages:\n  - name: cpp\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, true); err == nil {
		t.Error("a language without suffix should be rejected")
	}

	if err := os.WriteFile(path, []byte("designer: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, true); err == nil {
		t.Error("malformed YAML should be rejected")
	}
}
