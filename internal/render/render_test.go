package render

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func testRoot() fstest.MapFS {
	return fstest.MapFS{
		"headers/plain.txt": {Data: []byte("#ifndef ${include_guard}\nclass ${class_name};\n")},
		"sources/cost.txt":  {Data: []byte("// costs $$5 for $class_name\n")},
		"headers/bad.txt":   {Data: []byte("line one\n${unknown_key}\n")},
		"headers/lone.txt":  {Data: []byte("price: $ 5\n")},
	}
}

var fields = map[string]string{
	"class_name":    "Foo",
	"include_guard": "FOO_H",
}

func TestRender(t *testing.T) {
	r := New(testRoot())

	tests := []struct {
		name string
		want string
	}{
		{"headers/plain.txt", "#ifndef FOO_H\nclass Foo;\n"},
		{"sources/cost.txt", "// costs $5 for Foo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.name, fields)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := New(testRoot())
	first, err := r.Render("headers/plain.txt", fields)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Render("headers/plain.txt", fields)
		if err != nil || again != first {
			t.Fatalf("render %d differs: %q, %v", i, again, err)
		}
	}

	_, err1 := r.Render("headers/bad.txt", fields)
	_, err2 := r.Render("headers/bad.txt", fields)
	if err1 == nil || err2 == nil || err1.Error() != err2.Error() {
		t.Fatalf("unresolved errors should be identical: %v / %v", err1, err2)
	}
}

func TestRenderTemplateNotFound(t *testing.T) {
	r := New(testRoot())
	for _, name := range []string{"headers/missing.txt", "../outside.txt"} {
		_, err := r.Render(name, fields)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Fatalf("Render(%q) error = %v, want ErrTemplateNotFound", name, err)
		}
		var nf *TemplateNotFoundError
		if !errors.As(err, &nf) || nf.Name != name {
			t.Errorf("error should name the template, got %v", err)
		}
	}
}

func TestRenderUnresolvedPlaceholder(t *testing.T) {
	r := New(testRoot())

	_, err := r.Render("headers/bad.txt", fields)
	var upErr *UnresolvedPlaceholderError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UnresolvedPlaceholderError, got %v", err)
	}
	if upErr.Key != "unknown_key" || upErr.Line != 2 || upErr.Template != "headers/bad.txt" {
		t.Errorf("unexpected error details: %+v", upErr)
	}
	if !errors.Is(err, ErrUnresolvedPlaceholder) {
		t.Error("error should match ErrUnresolvedPlaceholder")
	}

	_, err = r.Render("headers/lone.txt", fields)
	if !errors.Is(err, ErrUnresolvedPlaceholder) {
		t.Errorf("lone '$' should be rejected, got %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${b} $a ${b} $$ ${c}")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("Placeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	root := testRoot()
	delete(root, "headers/bad.txt")
	delete(root, "headers/lone.txt")

	checked, err := New(root).Validate(fields)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if diff := cmp.Diff([]string{"headers/plain.txt", "sources/cost.txt"}, checked); diff != "" {
		t.Errorf("checked mismatch (-want +got):\n%s", diff)
	}

	if _, err := New(testRoot()).Validate(fields); err == nil {
		t.Error("Validate should fail on a broken template")
	}
}
