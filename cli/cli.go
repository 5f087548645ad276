package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sokinpui/qttools/internal/descriptor"
	"github.com/sokinpui/qttools/internal/generator"
)

// Command is a qttools subcommand.
type Command string

const (
	CmdCreateClass    Command = "create-class"
	CmdCreateFile     Command = "create-file"
	CmdTouch          Command = "touch"
	CmdOpenDesigner   Command = "open-designer"
	CmdGenerateCode   Command = "generate-code"
	CmdCheckTemplates Command = "check-templates"
	CmdKinds          Command = "kinds"
)

var commands = []struct {
	cmd  Command
	desc string
}{
	{CmdCreateClass, "Create a class (plain, header, interface, qobject, gui) in --dir."},
	{CmdCreateFile, "Create a file (empty, ui_design) in --dir."},
	{CmdTouch, "Create a file relative to the project folder of --dir."},
	{CmdOpenDesigner, "Open a .ui form in Qt Designer."},
	{CmdGenerateCode, "Compile a .ui form to source code with uic."},
	{CmdCheckTemplates, "Render every template with sample values."},
	{CmdKinds, "List the class and file kinds."},
}

// Drivers accepted by --driver.
const (
	DriverAuto   = "auto"
	DriverTUI    = "tui"
	DriverNvim   = "nvim"
	DriverSurvey = "survey"
)

// ErrHelp is returned when usage was requested.
var ErrHelp = pflag.ErrHelp

// Config holds all the command-line flag values.
type Config struct {
	Command Command

	// create-class, create-file, touch
	Kind    generator.Kind
	Dirs    []string
	Folders []string

	// open-designer, generate-code
	File string
	Copy bool

	ConfigPath   string
	Driver       string
	Answers      []string
	TemplatesDir string
	Catalog      string
	Naming       string
	Verbose      bool
	NoAnimation  bool
}

// Dir is the single target directory.
func (c *Config) Dir() string {
	if len(c.Dirs) == 0 {
		return ""
	}
	return c.Dirs[0]
}

// Scripted reports whether answers were supplied on the command line.
func (c *Config) Scripted() bool {
	return len(c.Answers) > 0
}

// ParseArgs parses os.Args[1:]-style arguments: a command followed by its
// flags. Usage goes to stderr.
func ParseArgs(args []string) (*Config, error) {
	return parse(args, os.Stderr)
}

func parse(args []string, out io.Writer) (*Config, error) {
	if len(args) == 0 {
		Usage(out)
		return nil, errors.New("no command given")
	}
	switch args[0] {
	case "-h", "--help", "help":
		Usage(out)
		return nil, ErrHelp
	}

	cfg := &Config{Command: Command(args[0])}
	if !knownCommand(cfg.Command) {
		Usage(out)
		return nil, fmt.Errorf("unknown command %q", args[0])
	}

	fs := pflag.NewFlagSet("qttools "+args[0], pflag.ContinueOnError)
	fs.SetOutput(out)
	addGlobalFlags(fs, cfg)

	var kind string
	switch cfg.Command {
	case CmdCreateClass, CmdCreateFile:
		fs.StringVarP(&kind, "kind", "k", "", "Kind of class or file to create.")
		fs.StringSliceVarP(&cfg.Dirs, "dir", "d", nil, "Target directory (exactly one).")
	case CmdTouch:
		fs.StringSliceVarP(&cfg.Dirs, "dir", "d", nil, "Target directory (exactly one).")
		fs.StringArrayVar(&cfg.Folders, "folder", nil, "Project folder; repeatable. Overrides the config 'folders' key.")
	case CmdOpenDesigner:
		fs.StringVarP(&cfg.File, "file", "f", "", "Form to open. Defaults to the current Neovim buffer.")
	case CmdGenerateCode:
		fs.StringVarP(&cfg.File, "file", "f", "", "Form to compile. Defaults to the current Neovim buffer.")
		fs.BoolVarP(&cfg.Copy, "copy", "c", false, "Also copy the generated code to the clipboard.")
	}

	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: qttools %s [flags]\n\nFlags:\n", cfg.Command)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if err := validate(cfg, kind); err != nil {
		return nil, err
	}
	return cfg, nil
}

func addGlobalFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/qttools/config.yaml).")
	fs.StringVar(&cfg.Driver, "driver", "", "Prompt driver: auto, tui, nvim or survey.")
	fs.StringArrayVarP(&cfg.Answers, "answer", "a", nil, "Answer the next prompt; repeatable. Disables interactive prompts.")
	fs.StringVar(&cfg.TemplatesDir, "templates", "", "Directory replacing the built-in templates.")
	fs.StringVar(&cfg.Catalog, "catalog", "", "File replacing the built-in QObject base class list.")
	fs.StringVar(&cfg.Naming, "naming", "", "File naming style: class, lower or snake.")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print debug output.")
	fs.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the loading spinner.")
}

func validate(cfg *Config, kind string) error {
	switch cfg.Command {
	case CmdCreateClass, CmdCreateFile:
		allowed := generator.ClassKinds
		if cfg.Command == CmdCreateFile {
			allowed = generator.FileKinds
		}
		if kind == "" {
			return errors.New("--kind is required")
		}
		k, err := generator.ParseKind(kind, allowed)
		if err != nil {
			return err
		}
		cfg.Kind = k
		if err := singleDir(cfg.Dirs); err != nil {
			return err
		}
	case CmdTouch:
		if err := singleDir(cfg.Dirs); err != nil {
			return err
		}
	}

	switch cfg.Driver {
	case "", DriverAuto, DriverTUI, DriverNvim, DriverSurvey:
	default:
		return fmt.Errorf("invalid --driver %q (valid: auto, tui, nvim, survey)", cfg.Driver)
	}
	if cfg.Naming != "" {
		if _, err := descriptor.ParseNaming(cfg.Naming); err != nil {
			return err
		}
	}
	return nil
}

func singleDir(dirs []string) error {
	switch len(dirs) {
	case 0:
		return errors.New("--dir is required")
	case 1:
		if strings.TrimSpace(dirs[0]) == "" {
			return errors.New("--dir is empty")
		}
		return nil
	default:
		return fmt.Errorf("exactly one --dir is required, got %d", len(dirs))
	}
}

func knownCommand(c Command) bool {
	for _, k := range commands {
		if k.cmd == c {
			return true
		}
	}
	return false
}

// Usage prints the command overview.
func Usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: qttools <command> [flags]")
	fmt.Fprintln(out, "\nGenerate Qt boilerplate from Neovim or a terminal.")
	fmt.Fprintln(out, "\nExample: qttools create-class --kind qobject --dir src/widgets")
	fmt.Fprintln(out, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-16s %s\n", c.cmd, c.desc)
	}
	fmt.Fprintln(out, "\nRun 'qttools <command> --help' for the flags of a command.")
}
