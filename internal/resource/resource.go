// Package resource holds the template tree and the QObject base class
// catalog. Both are loaded once into a Set, embedded by default and
// overridable from disk.
package resource

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
)

//go:embed template
var embedded embed.FS

//go:embed qobjects.txt
var embeddedCatalog string

// Options point the Set at on-disk replacements. Empty fields use the
// embedded resources.
type Options struct {
	TemplatesDir string
	CatalogPath  string
}

// Set is the read-only resource state shared by the generators.
type Set struct {
	opts Options

	mu        sync.RWMutex
	templates fs.FS
	catalog   []string
}

// Load reads the templates root and the catalog.
func Load(opts Options) (*Set, error) {
	s := &Set{opts: opts}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads both resources from their configured locations.
func (s *Set) Reload() error {
	templates, err := openTemplates(s.opts.TemplatesDir)
	if err != nil {
		return err
	}
	catalog, err := readCatalog(s.opts.CatalogPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = templates
	s.catalog = catalog
	return nil
}

// Templates returns the templates root.
func (s *Set) Templates() fs.FS {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates
}

// Catalog returns a copy of the base class catalog.
func (s *Set) Catalog() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func openTemplates(dir string) (fs.FS, error) {
	if dir == "" {
		sub, err := fs.Sub(embedded, "template")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded templates: %w", err)
		}
		return sub, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates path %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

func readCatalog(path string) ([]string, error) {
	content := embeddedCatalog
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read base class catalog: %w", err)
		}
		content = string(data)
	}

	catalog := ParseCatalog(content)
	if len(catalog) == 0 {
		return nil, fmt.Errorf("base class catalog %q is empty", path)
	}
	return catalog, nil
}

// ParseCatalog splits newline-delimited class names, skipping blank lines
// and '#' comments.
func ParseCatalog(content string) []string {
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}
