package qttools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/sokinpui/qttools/cli"
	"github.com/sokinpui/qttools/internal/config"
	"github.com/sokinpui/qttools/internal/descriptor"
	qfs "github.com/sokinpui/qttools/internal/fs"
	"github.com/sokinpui/qttools/internal/generator"
	"github.com/sokinpui/qttools/internal/nvim"
	"github.com/sokinpui/qttools/internal/project"
	"github.com/sokinpui/qttools/internal/prompt"
	"github.com/sokinpui/qttools/internal/render"
	"github.com/sokinpui/qttools/internal/resource"
	"github.com/sokinpui/qttools/internal/tool"
	"github.com/sokinpui/qttools/internal/ui"
	"github.com/sokinpui/qttools/model"
)

// DriverScripted is reported by DriverName when answers were given up front.
const DriverScripted = "scripted"

// App orchestrates the entire application logic.
type App struct {
	cfg      *cli.Config
	file     *config.File
	res      *resource.Set
	renderer *render.Renderer
	writer   *project.Writer
	naming   descriptor.Naming

	editor      *nvim.Manager
	editorTried bool

	// absolutePaths keeps summary paths absolute.
	absolutePaths bool
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error { return e.Err }

// New creates a new App instance, reading the config file named by the
// flags or the default one.
func New(cfg *cli.Config) (*App, error) {
	path, explicit := cfg.ConfigPath, cfg.ConfigPath != ""
	if !explicit {
		path = config.DefaultPath()
	}
	file, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, file)
}

func newApp(cfg *cli.Config, file *config.File) (*App, error) {
	res, err := resource.Load(resource.Options{
		TemplatesDir: firstNonEmpty(cfg.TemplatesDir, file.TemplatesDir),
		CatalogPath:  firstNonEmpty(cfg.Catalog, file.Catalog),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}
	naming, err := descriptor.ParseNaming(firstNonEmpty(cfg.Naming, file.Naming))
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		file:     file,
		res:      res,
		renderer: render.New(res.Templates()),
		writer:   project.NewWriter(),
		naming:   naming,
	}, nil
}

// Close releases the editor connection, if any.
func (a *App) Close() {
	if a.editor != nil {
		a.editor.Close()
		a.editor = nil
	}
}

// Interactive reports whether the command prompts the user.
func (a *App) Interactive() bool {
	switch a.cfg.Command {
	case cli.CmdCreateClass, cli.CmdCreateFile, cli.CmdTouch, cli.CmdGenerateCode:
		return true
	default:
		return false
	}
}

// DriverName resolves --driver, the config and auto-detection to one of
// scripted, tui, nvim or survey.
func (a *App) DriverName() string {
	if a.cfg.Scripted() {
		return DriverScripted
	}
	name := firstNonEmpty(a.cfg.Driver, a.file.Driver, cli.DriverAuto)
	if name == cli.DriverAuto {
		if nvim.Address() != "" {
			return cli.DriverNvim
		}
		return cli.DriverTUI
	}
	return name
}

// Driver returns the prompt driver for every driver except tui, which is
// hosted by the terminal UI program.
func (a *App) Driver() (prompt.Driver, error) {
	switch name := a.DriverName(); name {
	case DriverScripted:
		return prompt.NewScripted(a.cfg.Answers...), nil
	case cli.DriverSurvey:
		return prompt.NewSurvey(), nil
	case cli.DriverNvim:
		ed := a.Editor()
		if ed == nil {
			return nil, nvim.ErrNoEditor
		}
		return ed, nil
	case cli.DriverTUI:
		return nil, errors.New("the tui driver runs inside the terminal UI")
	default:
		return nil, fmt.Errorf("unknown prompt driver %q", name)
	}
}

// Editor returns the host Neovim, connecting on first use. It is nil when
// not running inside Neovim.
func (a *App) Editor() *nvim.Manager {
	if a.editorTried {
		return a.editor
	}
	a.editorTried = true
	if nvim.Address() == "" {
		return nil
	}
	m, err := nvim.New()
	if err != nil {
		ui.Debug("%v", err)
		return nil
	}
	a.editor = m
	return m
}

// Execute runs the parsed command, prompting through d.
func (a *App) Execute(ctx context.Context, d prompt.Driver) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
		if err != nil {
			a.notify(err)
		}
	}()

	if a.Interactive() && d == nil {
		return model.Summary{}, errors.New("no prompt driver")
	}

	switch a.cfg.Command {
	case cli.CmdCreateClass, cli.CmdCreateFile:
		return a.generate(ctx, d)
	case cli.CmdTouch:
		return a.touch(ctx, d)
	case cli.CmdOpenDesigner:
		return a.openDesigner()
	case cli.CmdGenerateCode:
		return a.generateCode(ctx, d)
	case cli.CmdCheckTemplates:
		return a.checkTemplates()
	case cli.CmdKinds:
		return kinds(), nil
	default:
		return model.Summary{}, fmt.Errorf("unknown command %q", a.cfg.Command)
	}
}

func canceled(err error) model.Summary {
	ui.Debug("%v", err)
	return model.Summary{Message: "Canceled.", Canceled: true}
}

// generate runs one class or file generator and writes its project.
func (a *App) generate(ctx context.Context, d prompt.Driver) (model.Summary, error) {
	dir, err := filepath.Abs(a.cfg.Dir())
	if err != nil {
		return model.Summary{}, fmt.Errorf("invalid directory %s: %w", a.cfg.Dir(), err)
	}

	gen, err := generator.New(a.cfg.Kind, dir, generator.Env{
		Prompt:   d,
		Renderer: a.renderer,
		Catalog:  a.res.Catalog(),
		Naming:   a.naming,
	})
	if err != nil {
		return model.Summary{}, err
	}
	if err := gen.Prepare(ctx); err != nil {
		if errors.Is(err, generator.ErrCanceled) {
			return canceled(err), nil
		}
		return model.Summary{}, err
	}

	p, err := gen.Generate()
	if err != nil {
		return model.Summary{}, err
	}
	res, err := a.writer.Write(p)
	summary := model.Summary{Created: res.Created, Modified: res.Modified, Failed: res.Failed}
	a.relativizeSummaryPaths(&summary)
	return summary, err
}

// touch creates a file relative to the project folder of --dir.
func (a *App) touch(ctx context.Context, d prompt.Driver) (model.Summary, error) {
	folders := a.cfg.Folders
	if len(folders) == 0 {
		folders = a.file.Folders
	}
	if len(folders) == 0 {
		folders = qfs.DefaultFolders()
	}

	dir, err := filepath.Abs(a.cfg.Dir())
	if err != nil {
		return model.Summary{}, fmt.Errorf("invalid directory %s: %w", a.cfg.Dir(), err)
	}
	root, err := qfs.ProjectFolder(dir, folders)
	if err != nil {
		return model.Summary{}, err
	}

	initial := ""
	if rel, err := filepath.Rel(root, dir); err == nil && rel != "." {
		initial = rel + string(filepath.Separator)
	}
	answer, err := d.Text(ctx, "File name", initial)
	if err != nil {
		return model.Summary{}, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" || answer == initial {
		return canceled(fmt.Errorf("%w: file name undefined", generator.ErrCanceled)), nil
	}

	path := filepath.Join(root, answer)
	created, err := qfs.Touch(path)
	if err != nil {
		return model.Summary{Failed: []string{path}}, err
	}

	summary := model.Summary{}
	if created {
		summary.Created = []string{path}
	} else {
		summary.Message = fmt.Sprintf("%s already exists.", path)
	}
	if ed := a.Editor(); ed != nil {
		if err := ed.OpenFile(path); err != nil {
			return summary, err
		}
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// activeForm is --file, or the current buffer of the host editor.
func (a *App) activeForm() (string, error) {
	path := a.cfg.File
	if path == "" {
		ed := a.Editor()
		if ed == nil {
			return "", errors.New("no form given: pass --file or run inside Neovim")
		}
		active, err := ed.ActiveFile()
		if err != nil {
			return "", err
		}
		path = active
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", path, err)
	}
	if !qfs.IsUIForm(abs) {
		return "", fmt.Errorf("%s is not a Qt Designer form (.ui)", abs)
	}
	return abs, nil
}

func (a *App) openDesigner() (model.Summary, error) {
	path, err := a.activeForm()
	if err != nil {
		return model.Summary{}, err
	}
	designer := tool.NewDesigner(tool.NewRunner(filepath.Dir(path)), a.file.Designer)
	if err := designer.Open(path); err != nil {
		return model.Summary{}, err
	}
	return model.Summary{Message: fmt.Sprintf("Opened %s in Qt Designer.", filepath.Base(path))}, nil
}

func (a *App) generateCode(ctx context.Context, d prompt.Driver) (model.Summary, error) {
	path, err := a.activeForm()
	if err != nil {
		return model.Summary{}, err
	}

	names := make([]string, len(a.file.Languages))
	for i, l := range a.file.Languages {
		names[i] = l.Name
	}
	choice, err := d.Choice(ctx, names, "Target Language", 0)
	if err != nil {
		return model.Summary{}, err
	}
	if choice == "" {
		return canceled(fmt.Errorf("%w: target language undefined", generator.ErrCanceled)), nil
	}
	lang := a.file.Languages[prompt.IndexOf(names, choice)]

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name, err := d.Text(ctx, "Output name", stem+lang.Suffix)
	if err != nil {
		return model.Summary{}, err
	}
	if name = strings.TrimSpace(name); name == "" {
		return canceled(fmt.Errorf("%w: output name undefined", generator.ErrCanceled)), nil
	}

	out := tool.OutputPath(path, name, lang.Suffix)
	action := qfs.GetFileActions([]string{out})[out]

	uic := tool.NewUIC(tool.NewRunner(filepath.Dir(path)), a.file.UIC)
	res, err := uic.Generate(ctx, path, lang, name, a.cfg.Copy)
	if res == nil {
		return model.Summary{}, err
	}

	summary := model.Summary{}
	if action == qfs.ActionModify {
		summary.Modified = []string{res.OutputPath}
	} else {
		summary.Created = []string{res.OutputPath}
	}
	switch {
	case err != nil:
		summary.Message = err.Error()
	case res.Copied:
		summary.Message = "Generated code copied to the clipboard."
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// checkTemplates makes sure every template a generator needs exists and
// renders with sample values.
func (a *App) checkTemplates() (model.Summary, error) {
	for _, name := range generator.TemplateNames() {
		if _, err := a.renderer.Load(name); err != nil {
			return model.Summary{}, err
		}
	}
	sample, err := descriptor.New("Sample", "QObject", descriptor.WithNaming(a.naming))
	if err != nil {
		return model.Summary{}, err
	}
	checked, err := a.renderer.Validate(sample.Fields())
	if err != nil {
		return model.Summary{}, err
	}
	return model.Summary{
		Message: fmt.Sprintf("%d templates OK, %d base classes in catalog.", len(checked), len(a.res.Catalog())),
	}, nil
}

func kinds() model.Summary {
	join := func(ks []generator.Kind) string {
		names := make([]string, len(ks))
		for i, k := range ks {
			names[i] = string(k)
		}
		return strings.Join(names, ", ")
	}
	return model.Summary{Message: fmt.Sprintf("%s: %s\n%s: %s",
		cli.CmdCreateClass, join(generator.ClassKinds),
		cli.CmdCreateFile, join(generator.FileKinds))}
}

// notify echoes errors in the host editor.
func (a *App) notify(err error) {
	if a.editor == nil {
		return
	}
	if nerr := a.editor.Notify("qttools: "+err.Error(), nvim.LevelError); nerr != nil {
		ui.Debug("failed to notify nvim: %v", nerr)
	}
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	if a.absolutePaths {
		return
	}
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	makeRelative := func(absPaths []string) []string {
		if absPaths == nil {
			return nil
		}
		relPaths := make([]string, len(absPaths))
		for i, p := range absPaths {
			rel, err := filepath.Rel(wd, p)
			if err != nil || strings.HasPrefix(rel, "..") {
				relPaths[i] = p // Fallback to absolute path
			} else {
				relPaths[i] = rel
			}
		}
		return relPaths
	}

	summary.Created = makeRelative(summary.Created)
	summary.Modified = makeRelative(summary.Modified)
	summary.Failed = makeRelative(summary.Failed)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
