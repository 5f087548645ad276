package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sokinpui/qttools/cli"
	"github.com/sokinpui/qttools/internal/tui"
	"github.com/sokinpui/qttools/internal/ui"
	"github.com/sokinpui/qttools/qttools"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			return 0
		}
		ui.Error("Error: %v", err)
		return 1
	}
	ui.SetVerbose(cfg.Verbose)

	app, err := qttools.New(cfg)
	if err != nil {
		ui.Error("Failed to initialize application: %v", err)
		return 1
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The terminal UI hosts its own prompts and renders the summary itself.
	if app.Interactive() && app.DriverName() == cli.DriverTUI {
		if _, err := tui.Run(ctx, app.Execute, tui.Options{NoAnimation: cfg.NoAnimation}); err != nil {
			if errors.Is(err, tui.ErrProgram) || errors.Is(err, tui.ErrClosed) {
				ui.Error("Error: %v", err)
			}
			reportStack(err)
			return 1
		}
		return 0
	}

	driver, err := app.Driver()
	if err != nil && app.Interactive() {
		ui.Error("Error: %v", err)
		return 1
	}

	summary, err := app.Execute(ctx, driver)
	if err != nil {
		ui.PrintSummary(summary.Created, summary.Modified, summary.Failed, "")
		ui.Error("Error: %v", err)
		reportStack(err)
		return 1
	}
	ui.PrintSummary(summary.Created, summary.Modified, summary.Failed, summary.Message)
	return 0
}

// reportStack prints the stack of a recovered panic in verbose mode.
func reportStack(err error) {
	var detailed *qttools.DetailedError
	if errors.As(err, &detailed) && ui.Verbose() {
		ui.Debug("stack trace:")
		ui.Plain(fmt.Sprintf("%s\n", detailed.Stack))
	}
}
