package tool

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	qfs "github.com/sokinpui/qttools/internal/fs"
)

// Language is a uic output language and the suffix of its generated file.
type Language struct {
	Name   string `yaml:"name"`
	Suffix string `yaml:"suffix"`
}

// DefaultLanguages are the targets offered when none are configured.
var DefaultLanguages = []Language{
	{Name: "cpp", Suffix: ".h"},
	{Name: "python", Suffix: ".py"},
}

// Designer opens forms in Qt Designer.
type Designer struct {
	runner     *Runner
	executable string
}

// NewDesigner uses executable, or "designer" when empty.
func NewDesigner(runner *Runner, executable string) *Designer {
	if executable == "" {
		executable = "designer"
	}
	return &Designer{runner: runner, executable: executable}
}

// Open launches Designer on a .ui file without waiting for it to exit.
func (d *Designer) Open(path string) error {
	if !qfs.IsUIForm(path) {
		return fmt.Errorf("%s is not a Qt Designer form", path)
	}
	return d.runner.Start(d.executable, "designer", path)
}

// UIC compiles forms to source code.
type UIC struct {
	runner     *Runner
	executable string
	copyFn     func(string) error
}

// NewUIC uses executable, or "uic" when empty.
func NewUIC(runner *Runner, executable string) *UIC {
	if executable == "" {
		executable = "uic"
	}
	return &UIC{runner: runner, executable: executable, copyFn: clipboard.WriteAll}
}

// CodeResult describes a successful compilation.
type CodeResult struct {
	OutputPath string
	Code       string
	Copied     bool
}

// Generate runs uic for language on uiFile and writes the code to
// outputName (next to uiFile, suffix forced to lang.Suffix). On a non-zero
// exit nothing is written and the error carries stderr.
func (u *UIC) Generate(ctx context.Context, uiFile string, lang Language, outputName string, copyToClipboard bool) (*CodeResult, error) {
	if !qfs.IsUIForm(uiFile) {
		return nil, fmt.Errorf("%s is not a Qt Designer form", uiFile)
	}

	res, err := u.runner.Run(ctx, u.executable, "uic", "-g", lang.Name, uiFile)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &ToolFailedError{
			Tool:     u.executable,
			ExitCode: res.ExitCode,
			Stderr:   string(NormalizeNewlines(res.Stderr)),
		}
	}

	code := NormalizeNewlines(res.Stdout)
	out := OutputPath(uiFile, outputName, lang.Suffix)
	if err := writeFile(out, code); err != nil {
		return nil, err
	}

	result := &CodeResult{OutputPath: out, Code: string(code)}
	if copyToClipboard {
		if err := u.copyFn(result.Code); err != nil {
			return result, fmt.Errorf("generated %s but failed to copy it to the clipboard: %w", out, err)
		}
		result.Copied = true
	}
	return result, nil
}
