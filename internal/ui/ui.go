package ui

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	DebugColor   = color.New(color.Faint)
)

var (
	out     io.Writer = os.Stderr
	verbose atomic.Bool
)

// SetOutput redirects all reporting. Tests use it to capture messages.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// SetVerbose enables Debug output.
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

// Verbose reports whether Debug output is enabled.
func Verbose() bool {
	return verbose.Load()
}

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(out, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(out, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(out, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(out, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(out, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(out, "  "+format+"\n", a...)
}

// Debug prints only when verbose output is enabled.
func Debug(format string, a ...interface{}) {
	if !verbose.Load() {
		return
	}
	DebugColor.Fprintf(out, "debug: "+format+"\n", a...)
}

// Plain writes uncoloured text, used for tool diagnostics passed through as-is.
func Plain(text string) {
	fmt.Fprint(out, text)
}

// --- Summaries ---

func PrintSummary(created, modified, failed []string, message string) {
	if message != "" {
		Header("%s", message)
	}

	if len(created) == 0 && len(modified) == 0 && len(failed) == 0 {
		if message == "" {
			Info("No files were written.")
		}
		return
	}

	if len(created) > 0 {
		Success("Created %d file(s):", len(created))
		for _, f := range created {
			Path("- %s", f)
		}
	}
	if len(modified) > 0 {
		Warning("Overwrote %d existing file(s):", len(modified))
		for _, f := range modified {
			Path("- %s", f)
		}
	}
	if len(failed) > 0 {
		Error("Failed to write %d file(s):", len(failed))
		for _, f := range failed {
			Path("- %s", f)
		}
	}
}
