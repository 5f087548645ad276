package fs

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoProjectFolder is returned when no folder contains the target path.
var ErrNoProjectFolder = errors.New("unable to find project folder")

// FileAction is what a write will do to a path.
type FileAction string

const (
	ActionCreate FileAction = "create"
	ActionModify FileAction = "modify"
)

// ProjectFolder returns the longest folder that contains target.
func ProjectFolder(target string, folders []string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("invalid target path %s: %w", target, err)
	}

	best := ""
	for _, folder := range folders {
		absFolder, err := filepath.Abs(folder)
		if err != nil {
			continue
		}
		if !Contains(absFolder, absTarget) {
			continue
		}
		if len(absFolder) > len(best) {
			best = absFolder
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w for %s", ErrNoProjectFolder, target)
	}
	return best, nil
}

// Contains reports whether path equals dir or lies beneath it.
func Contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// DefaultFolders is used when no folders are configured: the git toplevel
// of the working directory, or the working directory itself.
func DefaultFolders() []string {
	if root, err := findGitRoot(); err == nil && root != "" {
		return []string{root}
	}
	if wd, err := os.Getwd(); err == nil {
		return []string{wd}
	}
	return nil
}

// findGitRoot finds the root of the git repository.
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// GetFileActions determines which paths are new and which already exist.
func GetFileActions(targetPaths []string) map[string]FileAction {
	actions := make(map[string]FileAction, len(targetPaths))
	for _, path := range targetPaths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			actions[path] = ActionCreate
		} else {
			actions[path] = ActionModify
		}
	}
	return actions
}

// Touch creates path and its parents if missing. Existing content is kept.
func Touch(path string) (created bool, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return true, f.Close()
}

// IsUIForm reports whether path names a Qt Designer form.
func IsUIForm(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ui")
}
