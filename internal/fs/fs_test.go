package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestProjectFolderPicksLongestPrefix(t *testing.T) {
	root := t.TempDir()
	inner := filepath.Join(root, "app")
	target := filepath.Join(inner, "src", "widgets")

	got, err := ProjectFolder(target, []string{root, inner, filepath.Join(root, "other")})
	if err != nil {
		t.Fatalf("ProjectFolder failed: %v", err)
	}
	if got != inner {
		t.Errorf("ProjectFolder = %q, want %q", got, inner)
	}
}

func TestProjectFolderRespectsSegments(t *testing.T) {
	root := t.TempDir()
	// "app" is a string prefix of "apple" but not a parent of it.
	_, err := ProjectFolder(filepath.Join(root, "apple"), []string{filepath.Join(root, "app")})
	if !errors.Is(err, ErrNoProjectFolder) {
		t.Fatalf("expected ErrNoProjectFolder, got %v", err)
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		dir, path string
		want      bool
	}{
		{"/proj", "/proj", true},
		{"/proj", "/proj/src/a.h", true},
		{"/proj", "/project", false},
		{"/proj/src", "/proj", false},
		{"/proj", "/proj/..foo", true},
	}
	for _, tt := range tests {
		dir, path := filepath.FromSlash(tt.dir), filepath.FromSlash(tt.path)
		if got := Contains(dir, path); got != tt.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestGetFileActions(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.h")
	if err := os.WriteFile(existing, nil, 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "b.h")

	actions := GetFileActions([]string{existing, missing})
	if actions[existing] != ActionModify || actions[missing] != ActionCreate {
		t.Errorf("unexpected actions: %v", actions)
	}
}

func TestTouch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "notes.txt")

	created, err := Touch(path)
	if err != nil || !created {
		t.Fatalf("Touch = %v, %v; want created", created, err)
	}
	if err := os.WriteFile(path, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	created, err = Touch(path)
	if err != nil || created {
		t.Fatalf("second Touch = %v, %v; want existing", created, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "keep" {
		t.Errorf("Touch truncated existing content: %q", data)
	}
}

func TestIsUIForm(t *testing.T) {
	if !IsUIForm("/p/MainWindow.ui") || !IsUIForm("Form.UI") || IsUIForm("main.cpp") {
		t.Error("IsUIForm misclassified a path")
	}
}
