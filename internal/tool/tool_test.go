package tool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeTool installs an executable shell script named name on a fresh PATH.
func fakeTool(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)
	return dir
}

func writeForm(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "MainWindow.ui")
	if err := os.WriteFile(path, []byte("<ui/>"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUICGenerateWritesNormalizedCode(t *testing.T) {
	fakeTool(t, "uic", `printf 'lang=%s\r\nfile=%s\r\n' "$2" "$3"`)
	form := writeForm(t)

	res, err := NewUIC(NewRunner(""), "").Generate(context.Background(), form, DefaultLanguages[0], "ui_MainWindow.txt", false)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wantPath := filepath.Join(filepath.Dir(form), "ui_MainWindow.h")
	if res.OutputPath != wantPath {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "lang=cpp\nfile=" + form + "\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
	if strings.Contains(res.Code, "\r") {
		t.Error("carriage returns were not normalized")
	}
}

func TestUICFailureWritesNothing(t *testing.T) {
	fakeTool(t, "uic", "echo 'parse error' >&2\nexit 3\n")
	form := writeForm(t)

	_, err := NewUIC(NewRunner(""), "").Generate(context.Background(), form, DefaultLanguages[1], "MainWindow", false)
	var failed *ToolFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected ToolFailedError, got %v", err)
	}
	if failed.ExitCode != 3 || !strings.Contains(failed.Stderr, "parse error") {
		t.Errorf("unexpected failure details: %+v", failed)
	}
	if !errors.Is(err, ErrToolFailed) {
		t.Error("error should match ErrToolFailed")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(form), "MainWindow.py")); !os.IsNotExist(err) {
		t.Errorf("output written despite failure, stat err = %v", err)
	}
}

func TestUICCopiesToClipboard(t *testing.T) {
	fakeTool(t, "uic", "echo code\n")
	form := writeForm(t)

	var copied string
	u := NewUIC(NewRunner(""), "")
	u.copyFn = func(s string) error { copied = s; return nil }

	res, err := u.Generate(context.Background(), form, DefaultLanguages[0], "out", true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Copied || copied != "code\n" {
		t.Errorf("clipboard = %q, Copied = %v", copied, res.Copied)
	}
}

func TestMissingToolsAreNamed(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	form := writeForm(t)

	_, err := NewUIC(NewRunner(""), "").Generate(context.Background(), form, DefaultLanguages[0], "x", false)
	var nf *ToolNotFoundError
	if !errors.As(err, &nf) || nf.Tool != "uic" {
		t.Fatalf("expected uic ToolNotFoundError, got %v", err)
	}
	if !strings.Contains(err.Error(), "PATH") {
		t.Errorf("message should advise a PATH fix: %q", err.Error())
	}

	err = NewDesigner(NewRunner(""), "designer-qt6").Open(form)
	if !errors.Is(err, ErrToolNotFound) || !strings.Contains(err.Error(), "designer-qt6") {
		t.Fatalf("expected designer-qt6 not found, got %v", err)
	}
}

func TestDesignerOpen(t *testing.T) {
	dir := fakeTool(t, "designer", `echo "$1" > "${0%/*}/opened"`+"\n")
	form := writeForm(t)

	if err := NewDesigner(NewRunner(""), "").Open(form); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	marker := filepath.Join(dir, "opened")
	deadline := time.Now().Add(5 * time.Second)
	for {
		data, err := os.ReadFile(marker)
		if err == nil && strings.TrimSpace(string(data)) == form {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("designer was not launched with %s (last read %q, %v)", form, data, err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestRejectsNonForms(t *testing.T) {
	if err := NewDesigner(NewRunner(""), "").Open("main.cpp"); err == nil {
		t.Error("Open should reject non-.ui files")
	}
	if _, err := NewUIC(NewRunner(""), "").Generate(context.Background(), "main.cpp", DefaultLanguages[0], "x", false); err == nil {
		t.Error("Generate should reject non-.ui files")
	}
}

func TestOutputPath(t *testing.T) {
	src := filepath.FromSlash("/p/forms/Main.ui")
	tests := []struct{ name, suffix, want string }{
		{"Main.h", ".h", "/p/forms/Main.h"},
		{"Main", ".py", "/p/forms/Main.py"},
		{"ui_main.txt", ".h", "/p/forms/ui_main.h"},
	}
	for _, tt := range tests {
		if got := OutputPath(src, tt.name, tt.suffix); got != filepath.FromSlash(tt.want) {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := string(NormalizeNewlines([]byte("a\r\nb\nc\r\n"))); got != "a\nb\nc\n" {
		t.Errorf("NormalizeNewlines = %q", got)
	}
}
