package prompt

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScripted(t *testing.T) {
	ctx := context.Background()
	d := NewScripted("Foo", "", "QTimer", "NotAnOption")
	options := []string{"QObject", "QTimer"}

	if got, _ := d.Text(ctx, "class name", ""); got != "Foo" {
		t.Errorf("Text = %q, want Foo", got)
	}
	if got, _ := d.Choice(ctx, options, "Parent", 0); got != "QObject" {
		t.Errorf("empty answer should pick the default, got %q", got)
	}
	if got, _ := d.Choice(ctx, options, "Parent", 0); got != "QTimer" {
		t.Errorf("Choice = %q, want QTimer", got)
	}
	if got, _ := d.Choice(ctx, options, "Parent", 0); got != "" {
		t.Errorf("unknown option should cancel, got %q", got)
	}
	if got, _ := d.Text(ctx, "exhausted", ""); got != "" {
		t.Errorf("exhausted script should cancel, got %q", got)
	}

	want := []string{"class name", "Parent", "Parent", "Parent", "exhausted"}
	if diff := cmp.Diff(want, d.Asked()); diff != "" {
		t.Errorf("Asked mismatch (-want +got):\n%s", diff)
	}
}

func TestScriptedHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewScripted("x").Text(ctx, "c", ""); err == nil {
		t.Error("expected context error")
	}
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		answer   string
		yes      bool
		canceled bool
	}{
		{"Yes", true, false},
		{"No", false, false},
		{"", true, false}, // default is Yes
	}
	for _, tt := range tests {
		yes, canceled, err := Confirm(ctx, NewScripted(tt.answer), "Create Implementation Class")
		if err != nil {
			t.Fatal(err)
		}
		if yes != tt.yes || canceled != tt.canceled {
			t.Errorf("Confirm(%q) = %v, %v; want %v, %v", tt.answer, yes, canceled, tt.yes, tt.canceled)
		}
	}

	_, canceled, err := Confirm(ctx, NewScripted(), "Create Implementation Class")
	if err != nil || !canceled {
		t.Errorf("dismissed confirm should report canceled, got %v, %v", canceled, err)
	}
}

func TestIndexOf(t *testing.T) {
	if IndexOf([]string{"a", "b"}, "b") != 1 || IndexOf(nil, "a") != -1 {
		t.Error("IndexOf returned unexpected positions")
	}
}
