// Package tool runs the external Qt executables: Designer to edit forms and
// uic to turn forms into code.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sokinpui/qttools/internal/ui"
)

var (
	ErrToolNotFound = errors.New("external tool not found")
	ErrToolFailed   = errors.New("external tool failed")
)

// ToolNotFoundError names a missing executable and how to fix it.
type ToolNotFoundError struct {
	Tool      string
	ConfigKey string
	Err       error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("Unable to find Qt '%s'.\nSet the '%s' directory in PATH or the '%s' config key.", e.Tool, e.Tool, e.ConfigKey)
}

func (e *ToolNotFoundError) Unwrap() error { return e.Err }

func (e *ToolNotFoundError) Is(target error) bool { return target == ErrToolNotFound }

// ToolFailedError carries the diagnostics of a non-zero exit.
type ToolFailedError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ToolFailedError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d:\n%s", e.Tool, e.ExitCode, msg)
}

func (e *ToolFailedError) Is(target error) bool { return target == ErrToolFailed }

// CommandResult is the captured outcome of one invocation.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// Runner executes tools in an optional working directory.
type Runner struct {
	workDir string
}

// NewRunner creates a runner. An empty workDir uses the current directory.
func NewRunner(workDir string) *Runner {
	return &Runner{workDir: workDir}
}

// lookPath resolves name, mapping "not found" to a ToolNotFoundError.
func lookPath(name, configKey string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &ToolNotFoundError{Tool: name, ConfigKey: configKey, Err: err}
	}
	return path, nil
}

// Run executes name with args and captures stdout and stderr. A non-zero
// exit is reported in the result, not as an error.
func (r *Runner) Run(ctx context.Context, name, configKey string, args ...string) (*CommandResult, error) {
	path, err := lookPath(name, configKey)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = r.workDir
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	ui.Debug("Running: %s %s", name, strings.Join(args, " "))
	err = cmd.Run()
	result := &CommandResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return result, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return result, nil
}

// Start launches name detached from this process and does not wait for it.
func (r *Runner) Start(name, configKey string, args ...string) error {
	path, err := lookPath(name, configKey)
	if err != nil {
		return err
	}
	cmd := exec.Command(path, args...)
	cmd.Dir = r.workDir
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	ui.Debug("Started %s (pid %d)", name, cmd.Process.Pid)
	// Reap the child in the background so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// NormalizeNewlines converts CRLF line endings to LF.
func NormalizeNewlines(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}

// OutputPath places name next to the source form and forces suffix.
func OutputPath(sourceFile, name, suffix string) string {
	out := filepath.Join(filepath.Dir(sourceFile), name)
	if ext := filepath.Ext(out); ext != "" {
		out = strings.TrimSuffix(out, ext)
	}
	return out + suffix
}

// writeFile writes content, creating the parent directory.
func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
