package qttools

import (
	"context"
	"fmt"

	"github.com/sokinpui/qttools/cli"
	"github.com/sokinpui/qttools/internal/config"
	"github.com/sokinpui/qttools/internal/generator"
	"github.com/sokinpui/qttools/internal/prompt"
)

// ErrCanceled is returned when the answers ran out before the prompts did.
var ErrCanceled = generator.ErrCanceled

// Config for using qttools as a library. The user config file is not read.
type Config struct {
	// Directory replacing the built-in templates.
	TemplatesDir string
	// File replacing the built-in QObject base class list.
	Catalog string
	// File naming style: class (default), lower or snake.
	Naming string
}

// CreateClass generates a class of kind (plain, header, interface, qobject,
// gui) in dir, answering the prompts in order with answers. An empty answer
// to a choice picks its default.
// It returns a summary of the operations in a map.
func CreateClass(ctx context.Context, kind, dir string, answers []string, config Config) (map[string][]string, error) {
	return create(ctx, cli.CmdCreateClass, generator.ClassKinds, kind, dir, answers, config)
}

// CreateFile generates a file of kind (empty, ui_design) in dir.
func CreateFile(ctx context.Context, kind, dir string, answers []string, config Config) (map[string][]string, error) {
	return create(ctx, cli.CmdCreateFile, generator.FileKinds, kind, dir, answers, config)
}

func create(ctx context.Context, cmd cli.Command, allowed []generator.Kind, kind, dir string, answers []string, cfg Config) (map[string][]string, error) {
	k, err := generator.ParseKind(kind, allowed)
	if err != nil {
		return nil, err
	}
	cliCfg := &cli.Config{
		Command:      cmd,
		Kind:         k,
		Dirs:         []string{dir},
		Answers:      answers,
		TemplatesDir: cfg.TemplatesDir,
		Catalog:      cfg.Catalog,
		Naming:       cfg.Naming,
	}

	defaults, err := config.Load("", false)
	if err != nil {
		return nil, err
	}
	app, err := newApp(cliCfg, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize qttools app: %w", err)
	}
	app.absolutePaths = true
	app.editorTried = true

	summary, err := app.Execute(ctx, prompt.NewScripted(answers...))
	if err != nil {
		return nil, err
	}
	if summary.Canceled {
		return nil, ErrCanceled
	}

	result := map[string][]string{
		"Created":  summary.Created,
		"Modified": summary.Modified,
		"Failed":   summary.Failed,
	}

	return result, nil
}
