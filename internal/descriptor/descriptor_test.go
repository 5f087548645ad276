package descriptor

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewDerivesNames(t *testing.T) {
	for _, name := range []string{"Foo", "_private", "Widget2", "mainWindow", "Ünicode"} {
		t.Run(name, func(t *testing.T) {
			d, err := New(name, "")
			if err != nil {
				t.Fatalf("New(%q) failed: %v", name, err)
			}
			if got, want := d.HeaderName(), name+".h"; got != want {
				t.Errorf("HeaderName = %q, want %q", got, want)
			}
			if got, want := d.SourceName(), name+".cpp"; got != want {
				t.Errorf("SourceName = %q, want %q", got, want)
			}
			if got, want := d.UIName(), name+".ui"; got != want {
				t.Errorf("UIName = %q, want %q", got, want)
			}
			if got, want := d.IncludeGuard(), strings.ToUpper(name)+"_H"; got != want {
				t.Errorf("IncludeGuard = %q, want %q", got, want)
			}
		})
	}
}

func TestNewRejectsNonIdentifiers(t *testing.T) {
	for _, name := range []string{"", "1Foo", "Foo Bar", "Foo-Bar", "Foo.h", " Foo"} {
		t.Run(name, func(t *testing.T) {
			_, err := New(name, "")
			if !errors.Is(err, ErrInvalidIdentifier) {
				t.Fatalf("New(%q) error = %v, want ErrInvalidIdentifier", name, err)
			}
			var idErr *InvalidIdentifierError
			if !errors.As(err, &idErr) || idErr.Field != "class name" {
				t.Errorf("expected class name field error, got %#v", err)
			}
		})
	}
}

func TestBaseClassValidation(t *testing.T) {
	if _, err := New("Foo", "Q Widget"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("supplied invalid base should fail, got %v", err)
	}
	if _, err := NewWithBase("Foo", ""); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("missing required base should fail, got %v", err)
	}
	d, err := NewWithBase("Bar", "QWidget")
	if err != nil {
		t.Fatalf("NewWithBase failed: %v", err)
	}
	if d.BaseClassName() != "QWidget" {
		t.Errorf("BaseClassName = %q", d.BaseClassName())
	}
}

func TestFields(t *testing.T) {
	d, err := New("MainWindow", "QMainWindow")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"class_name":     "MainWindow",
		"baseclass_name": "QMainWindow",
		"source_name":    "MainWindow.cpp",
		"header_name":    "MainWindow.h",
		"include_guard":  "MAINWINDOW_H",
		"ui_name":        "MainWindow.ui",
	}
	if diff := cmp.Diff(want, d.Fields()); diff != "" {
		t.Errorf("Fields mismatch (-want +got):\n%s", diff)
	}

	// Mutating the returned map must not leak into the descriptor.
	d.Fields()["class_name"] = "Other"
	if d.ClassName() != "MainWindow" {
		t.Errorf("descriptor was mutated through Fields")
	}
}

func TestNaming(t *testing.T) {
	tests := []struct {
		naming Naming
		header string
	}{
		{NamingClass, "MainWindow.h"},
		{NamingLower, "mainwindow.h"},
		{NamingSnake, "main_window.h"},
	}
	for _, tt := range tests {
		t.Run(string(tt.naming), func(t *testing.T) {
			d, err := New("MainWindow", "", WithNaming(tt.naming))
			if err != nil {
				t.Fatal(err)
			}
			if d.HeaderName() != tt.header {
				t.Errorf("HeaderName = %q, want %q", d.HeaderName(), tt.header)
			}
			if d.IncludeGuard() != "MAINWINDOW_H" {
				t.Errorf("IncludeGuard = %q, naming must not affect it", d.IncludeGuard())
			}
		})
	}

	if _, err := ParseNaming("camel"); err == nil {
		t.Error("ParseNaming should reject unknown styles")
	}
	if n, err := ParseNaming(""); err != nil || n != NamingClass {
		t.Errorf("ParseNaming(\"\") = %q, %v", n, err)
	}
}
