// Package generator turns prompt answers into projects, one implementation
// per class or file kind.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sokinpui/qttools/internal/descriptor"
	"github.com/sokinpui/qttools/internal/project"
	"github.com/sokinpui/qttools/internal/prompt"
	"github.com/sokinpui/qttools/internal/render"
)

// ErrCanceled is returned by Prepare when the user dismissed a prompt.
var ErrCanceled = prompt.ErrCanceled

// Generator runs the prompts for one kind and maps the answers to files.
// Generate on a generator whose Prepare did not complete yields no files.
type Generator interface {
	Prepare(ctx context.Context) error
	Generate() (*project.Project, error)
}

// Kind selects a generator.
type Kind string

const (
	KindPlain     Kind = "plain"
	KindHeader    Kind = "header"
	KindInterface Kind = "interface"
	KindQObject   Kind = "qobject"
	KindGui       Kind = "gui"
	KindUIDesign  Kind = "ui_design"
	KindEmpty     Kind = "empty"
)

// ClassKinds are accepted by create-class, FileKinds by create-file.
var (
	ClassKinds = []Kind{KindPlain, KindHeader, KindInterface, KindQObject, KindGui}
	FileKinds  = []Kind{KindEmpty, KindUIDesign}
)

// ParseKind validates s against the allowed kinds.
func ParseKind(s string, allowed []Kind) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if k == a {
			return k, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("invalid kind %q (valid: %s)", s, strings.Join(names, ", "))
}

// GuiBaseClasses are offered by the gui and ui_design kinds. Each has a
// matching ui/<name>.txt template.
var GuiBaseClasses = []string{"QMainWindow", "QDialog", "QWidget"}

// TemplateNames lists every template a generator may load.
func TemplateNames() []string {
	names := []string{
		"headers/plain.txt", "headers/header.txt", "headers/interface.txt",
		"headers/qobject.txt", "headers/gui.txt",
		"sources/plain.txt", "sources/qobject.txt", "sources/gui.txt",
	}
	for _, b := range GuiBaseClasses {
		names = append(names, "ui/"+b+".txt")
	}
	return names
}

// Env is everything a generator needs besides its base path.
type Env struct {
	Prompt   prompt.Driver
	Renderer *render.Renderer
	// Catalog lists the base classes offered by the qobject kind.
	Catalog []string
	Naming  descriptor.Naming
}

// New returns the generator for kind writing under basePath.
func New(kind Kind, basePath string, env Env) (Generator, error) {
	if env.Prompt == nil {
		return nil, fmt.Errorf("generator %s: no prompt driver", kind)
	}
	if env.Renderer == nil && kind != KindEmpty {
		return nil, fmt.Errorf("generator %s: no renderer", kind)
	}

	b := base{path: basePath, env: env}
	switch kind {
	case KindPlain:
		return &classGen{base: b, header: "headers/plain.txt", source: "sources/plain.txt"}, nil
	case KindHeader:
		return &classGen{base: b, header: "headers/header.txt"}, nil
	case KindInterface:
		return &classGen{base: b, header: "headers/interface.txt"}, nil
	case KindQObject:
		return &qobjectGen{base: b}, nil
	case KindGui:
		return &guiGen{base: b, askImplementation: true}, nil
	case KindUIDesign:
		return &guiGen{base: b}, nil
	case KindEmpty:
		return &emptyGen{base: b}, nil
	default:
		return nil, fmt.Errorf("unknown generator kind %q", kind)
	}
}

// base holds the shared state of every generator. desc stays nil until a
// Prepare completes.
type base struct {
	path string
	env  Env
	desc *descriptor.Descriptor
}

func (b *base) naming() descriptor.Option {
	return descriptor.WithNaming(b.env.Naming)
}

// askText treats an empty answer as a cancel.
func (b *base) askText(ctx context.Context, caption, initial string) (string, error) {
	answer, err := b.env.Prompt.Text(ctx, caption, initial)
	if err != nil {
		return "", err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return "", fmt.Errorf("%w: %s undefined", ErrCanceled, caption)
	}
	return answer, nil
}

func (b *base) askChoice(ctx context.Context, options []string, placeholder string, def string) (string, error) {
	answer, err := b.env.Prompt.Choice(ctx, options, placeholder, max(prompt.IndexOf(options, def), 0))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("%w: %s undefined", ErrCanceled, placeholder)
	}
	return answer, nil
}

func (b *base) render(template string, out string) (project.File, error) {
	text, err := b.env.Renderer.Render(template, b.desc.Fields())
	if err != nil {
		return project.File{}, err
	}
	return project.File{Path: out, Content: text}, nil
}

// files renders each (template, output) pair, in order.
func (b *base) files(pairs ...[2]string) (*project.Project, error) {
	p := project.New(b.path)
	if b.desc == nil {
		return p, nil
	}
	for _, pair := range pairs {
		f, err := b.render(pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		p.Files = append(p.Files, f)
	}
	return p, nil
}

// defaultClassName strips the Qt "Q" prefix from a base class name.
func defaultClassName(baseClass string) string {
	return strings.TrimPrefix(baseClass, "Q")
}

// classGen covers the kinds that only ask for a class name.
type classGen struct {
	base
	header string
	source string
}

func (g *classGen) Prepare(ctx context.Context) error {
	name, err := g.askText(ctx, "class name", "")
	if err != nil {
		return err
	}
	d, err := descriptor.New(name, "", g.naming())
	if err != nil {
		return err
	}
	g.desc = d
	return nil
}

func (g *classGen) Generate() (*project.Project, error) {
	if g.desc == nil {
		return project.New(g.path), nil
	}
	pairs := [][2]string{{g.header, g.desc.HeaderName()}}
	if g.source != "" {
		pairs = append(pairs, [2]string{g.source, g.desc.SourceName()})
	}
	return g.files(pairs...)
}

// qobjectGen derives from a class chosen from the catalog.
type qobjectGen struct {
	base
}

func (g *qobjectGen) Prepare(ctx context.Context) error {
	if len(g.env.Catalog) == 0 {
		return fmt.Errorf("base class catalog is empty")
	}
	baseClass, err := g.askChoice(ctx, g.env.Catalog, "QObject Parent", "QObject")
	if err != nil {
		return err
	}
	name, err := g.askText(ctx, "class name", defaultClassName(baseClass))
	if err != nil {
		return err
	}
	d, err := descriptor.NewWithBase(name, baseClass, g.naming())
	if err != nil {
		return err
	}
	g.desc = d
	return nil
}

func (g *qobjectGen) Generate() (*project.Project, error) {
	if g.desc == nil {
		return project.New(g.path), nil
	}
	return g.files(
		[2]string{"headers/qobject.txt", g.desc.HeaderName()},
		[2]string{"sources/qobject.txt", g.desc.SourceName()},
	)
}

// guiGen writes a Designer form, and for the gui kind optionally the
// implementation class.
type guiGen struct {
	base
	askImplementation bool
	implementation    bool
}

func (g *guiGen) Prepare(ctx context.Context) error {
	baseClass, err := g.askChoice(ctx, GuiBaseClasses, "Parent", "QMainWindow")
	if err != nil {
		return err
	}

	if g.askImplementation {
		yes, canceled, err := prompt.Confirm(ctx, g.env.Prompt, "Create Implementation Class")
		if err != nil {
			return err
		}
		if canceled {
			return fmt.Errorf("%w: implementation class choice undefined", ErrCanceled)
		}
		g.implementation = yes
	}

	name, err := g.askText(ctx, "class name", defaultClassName(baseClass))
	if err != nil {
		return err
	}
	d, err := descriptor.NewWithBase(name, baseClass, g.naming())
	if err != nil {
		return err
	}
	g.desc = d
	return nil
}

func (g *guiGen) Generate() (*project.Project, error) {
	if g.desc == nil {
		return project.New(g.path), nil
	}
	pairs := [][2]string{{"ui/" + g.desc.BaseClassName() + ".txt", g.desc.UIName()}}
	if g.implementation {
		pairs = append(pairs,
			[2]string{"headers/gui.txt", g.desc.HeaderName()},
			[2]string{"sources/gui.txt", g.desc.SourceName()},
		)
	}
	return g.files(pairs...)
}

// emptyGen writes one empty file named verbatim by the user.
type emptyGen struct {
	base
	fileName string
}

func (g *emptyGen) Prepare(ctx context.Context) error {
	name, err := g.env.Prompt.Text(ctx, "File name", "")
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: file name undefined", ErrCanceled)
	}
	g.fileName = name
	return nil
}

func (g *emptyGen) Generate() (*project.Project, error) {
	p := project.New(g.path)
	if g.fileName != "" {
		p.Files = append(p.Files, project.File{Path: g.fileName})
	}
	return p, nil
}
