// Package render loads named templates and substitutes ${placeholder}
// tokens with descriptor fields.
package render

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
)

var (
	ErrTemplateNotFound      = errors.New("template not found")
	ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")
)

// TemplateNotFoundError names a template missing from the templates root.
type TemplateNotFoundError struct {
	Name string
	Err  error
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %s not found", e.Name)
}

func (e *TemplateNotFoundError) Unwrap() error { return e.Err }

func (e *TemplateNotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// UnresolvedPlaceholderError reports a placeholder with no matching field,
// or a '$' that does not start a valid placeholder.
type UnresolvedPlaceholderError struct {
	Template string
	Key      string
	Line     int
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("template %s line %d: unresolved placeholder %q", e.Template, e.Line, e.Key)
}

func (e *UnresolvedPlaceholderError) Is(target error) bool {
	return target == ErrUnresolvedPlaceholder
}

// placeholderRegex matches "$$", "$name", "${name}" and, as a last resort,
// a lone '$' which is always an error.
var placeholderRegex = regexp.MustCompile(`\$(?:(\$)|([_A-Za-z][_A-Za-z0-9]*)|\{([_A-Za-z][_A-Za-z0-9]*)\}|())`)

// Renderer renders templates from a root filesystem.
type Renderer struct {
	root fs.FS
}

// New creates a renderer over root. Template names are slash separated and
// relative to root.
func New(root fs.FS) *Renderer {
	return &Renderer{root: root}
}

// Load returns the raw text of a template.
func (r *Renderer) Load(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(clean) {
		return "", &TemplateNotFoundError{Name: name, Err: fs.ErrInvalid}
	}
	data, err := fs.ReadFile(r.root, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &TemplateNotFoundError{Name: name, Err: err}
		}
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}
	return string(data), nil
}

// Render loads the named template and substitutes fields into it.
func (r *Renderer) Render(name string, fields map[string]string) (string, error) {
	text, err := r.Load(name)
	if err != nil {
		return "", err
	}
	return Substitute(name, text, fields)
}

// Substitute replaces placeholders in text. name is only used in errors.
func Substitute(name, text string, fields map[string]string) (string, error) {
	matches := placeholderRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		last = m[1]

		switch {
		case m[2] >= 0: // "$$"
			b.WriteByte('$')
		case m[4] >= 0, m[6] >= 0:
			key := groupText(text, m, 4)
			if key == "" {
				key = groupText(text, m, 6)
			}
			value, ok := fields[key]
			if !ok {
				return "", &UnresolvedPlaceholderError{Template: name, Key: key, Line: lineOf(text, m[0])}
			}
			b.WriteString(value)
		default:
			return "", &UnresolvedPlaceholderError{Template: name, Key: invalidToken(text, m[0]), Line: lineOf(text, m[0])}
		}
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// Placeholders lists the distinct keys referenced by a template, sorted.
func Placeholders(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range placeholderRegex.FindAllStringSubmatchIndex(text, -1) {
		key := groupText(text, m, 4)
		if key == "" {
			key = groupText(text, m, 6)
		}
		if key != "" {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate renders every template under the root with fields and returns
// the names that were checked. The first failure stops the walk.
func (r *Renderer) Validate(fields map[string]string) ([]string, error) {
	var checked []string
	err := fs.WalkDir(r.root, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".txt") {
			return nil
		}
		if _, err := r.Render(p, fields); err != nil {
			return err
		}
		checked = append(checked, p)
		return nil
	})
	return checked, err
}

func groupText(text string, m []int, group int) string {
	if m[group] < 0 {
		return ""
	}
	return text[m[group]:m[group+1]]
}

func invalidToken(text string, at int) string {
	end := at + 1
	for end < len(text) && end < at+8 && text[end] != '\n' && text[end] != ' ' {
		end++
	}
	return text[at:end]
}

func lineOf(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}
