// Package project models the files produced by one generation run and
// writes them under a base directory.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	qfs "github.com/sokinpui/qttools/internal/fs"
	"github.com/sokinpui/qttools/internal/ui"
)

// File is a pending write. Path is relative to the project base path.
type File struct {
	Path    string
	Content string
}

// Project is the complete output of one run.
type Project struct {
	BasePath string
	Files    []File
}

// New creates a project rooted at basePath.
func New(basePath string, files ...File) *Project {
	return &Project{BasePath: basePath, Files: files}
}

// Empty reports whether there is nothing to write.
func (p *Project) Empty() bool {
	return p == nil || len(p.Files) == 0
}

// Paths returns the absolute target of every file, in order.
func (p *Project) Paths() []string {
	if p == nil {
		return nil
	}
	paths := make([]string, len(p.Files))
	for i, f := range p.Files {
		paths[i] = p.resolve(f)
	}
	return paths
}

func (p *Project) resolve(f File) string {
	if filepath.IsAbs(f.Path) {
		return filepath.Clean(f.Path)
	}
	return filepath.Join(p.BasePath, filepath.FromSlash(f.Path))
}

// Result lists what a Write did.
type Result struct {
	Created  []string
	Modified []string
	Failed   []string
}

// Writer persists projects. Existing files are overwritten.
type Writer struct {
	FileMode os.FileMode
}

// NewWriter returns a writer using 0644 for new files.
func NewWriter() *Writer {
	return &Writer{FileMode: 0644}
}

// Write creates parent directories and writes each file in order. It stops
// at the first failure; earlier files stay on disk.
func (w *Writer) Write(p *Project) (Result, error) {
	var res Result
	if p.Empty() {
		return res, nil
	}

	paths := p.Paths()
	actions := qfs.GetFileActions(paths)

	for i, f := range p.Files {
		path := paths[i]
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			res.Failed = append(res.Failed, path)
			return res, fmt.Errorf("failed to create parent directory for %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(f.Content), w.FileMode); err != nil {
			res.Failed = append(res.Failed, path)
			return res, fmt.Errorf("failed to write file %s: %w", path, err)
		}
		ui.Debug("Written file: %s", path)

		if actions[path] == qfs.ActionModify {
			res.Modified = append(res.Modified, path)
		} else {
			res.Created = append(res.Created, path)
		}
	}
	return res, nil
}
