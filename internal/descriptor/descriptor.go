// Package descriptor validates class names and derives the file names and
// substitution fields used by the templates.
package descriptor

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidIdentifier is matched by every *InvalidIdentifierError.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// InvalidIdentifierError reports a class or base class name that is not a
// bare identifier.
type InvalidIdentifierError struct {
	Field string
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// Naming selects how file name stems are derived from the class name.
type Naming string

const (
	NamingClass Naming = "class"
	NamingLower Naming = "lower"
	NamingSnake Naming = "snake"
)

// ParseNaming accepts "", "class", "lower" and "snake".
func ParseNaming(s string) (Naming, error) {
	switch n := Naming(strings.ToLower(strings.TrimSpace(s))); n {
	case "":
		return NamingClass, nil
	case NamingClass, NamingLower, NamingSnake:
		return n, nil
	default:
		return "", fmt.Errorf("unknown file naming %q (valid: class, lower, snake)", s)
	}
}

// Substitution keys understood by the templates.
const (
	KeyClassName     = "class_name"
	KeyBaseClassName = "baseclass_name"
	KeySourceName    = "source_name"
	KeyHeaderName    = "header_name"
	KeyIncludeGuard  = "include_guard"
	KeyUIName        = "ui_name"
)

// Descriptor is a validated class description. All derived names are fixed
// at construction.
type Descriptor struct {
	className     string
	baseClassName string
	sourceName    string
	headerName    string
	includeGuard  string
	uiName        string
}

type options struct {
	naming Naming
}

// Option customizes derived names.
type Option func(*options)

// WithNaming sets the file naming style. The zero value keeps class names.
func WithNaming(n Naming) Option {
	return func(o *options) {
		if n != "" {
			o.naming = n
		}
	}
}

// New builds a descriptor. baseClassName may be empty; when it is not, it
// must be an identifier as well.
func New(className, baseClassName string, opts ...Option) (*Descriptor, error) {
	if !IsIdentifier(className) {
		return nil, &InvalidIdentifierError{Field: "class name", Value: className}
	}
	if baseClassName != "" && !IsIdentifier(baseClassName) {
		return nil, &InvalidIdentifierError{Field: "base class name", Value: baseClassName}
	}

	o := options{naming: NamingClass}
	for _, opt := range opts {
		opt(&o)
	}

	stem := fileStem(className, o.naming)
	return &Descriptor{
		className:     className,
		baseClassName: baseClassName,
		sourceName:    stem + ".cpp",
		headerName:    stem + ".h",
		includeGuard:  upper.String(className) + "_H",
		uiName:        stem + ".ui",
	}, nil
}

// NewWithBase is New for kinds where the base class is mandatory.
func NewWithBase(className, baseClassName string, opts ...Option) (*Descriptor, error) {
	if !IsIdentifier(baseClassName) {
		return nil, &InvalidIdentifierError{Field: "base class name", Value: baseClassName}
	}
	return New(className, baseClassName, opts...)
}

var upper = cases.Upper(language.Und)

func fileStem(className string, naming Naming) string {
	switch naming {
	case NamingLower:
		return strings.ToLower(className)
	case NamingSnake:
		return strcase.ToSnake(className)
	default:
		return className
	}
}

// IsIdentifier reports whether s is non-empty, starts with a letter or an
// underscore and contains only letters, digits and underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func (d *Descriptor) ClassName() string     { return d.className }
func (d *Descriptor) BaseClassName() string { return d.baseClassName }
func (d *Descriptor) SourceName() string    { return d.sourceName }
func (d *Descriptor) HeaderName() string    { return d.headerName }
func (d *Descriptor) IncludeGuard() string  { return d.includeGuard }
func (d *Descriptor) UIName() string        { return d.uiName }

// Fields returns a fresh substitution map keyed by the template placeholders.
func (d *Descriptor) Fields() map[string]string {
	return map[string]string{
		KeyClassName:     d.className,
		KeyBaseClassName: d.baseClassName,
		KeySourceName:    d.sourceName,
		KeyHeaderName:    d.headerName,
		KeyIncludeGuard:  d.includeGuard,
		KeyUIName:        d.uiName,
	}
}
