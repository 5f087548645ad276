// Package config loads the optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sokinpui/qttools/internal/tool"
)

// File mirrors config.yaml. Every field is optional.
type File struct {
	Designer     string          `yaml:"designer"`
	UIC          string          `yaml:"uic"`
	TemplatesDir string          `yaml:"templates_dir"`
	Catalog      string          `yaml:"catalog"`
	Driver       string          `yaml:"driver"`
	Naming       string          `yaml:"naming"`
	Folders      []string        `yaml:"folders"`
	Languages    []tool.Language `yaml:"languages"`
}

// DefaultPath is $XDG_CONFIG_HOME/qttools/config.yaml or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qttools", "config.yaml")
}

// Load reads path. A missing file yields defaults unless explicit is set,
// in which case the file must exist.
func Load(path string, explicit bool) (*File, error) {
	cfg := &File{}
	if path == "" {
		return cfg.withDefaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg.withDefaults(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.TemplatesDir = expandPath(cfg.TemplatesDir, base)
	cfg.Catalog = expandPath(cfg.Catalog, base)
	for i, f := range cfg.Folders {
		cfg.Folders[i] = expandPath(f, base)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func (c *File) withDefaults() *File {
	if c.Designer == "" {
		c.Designer = "designer"
	}
	if c.UIC == "" {
		c.UIC = "uic"
	}
	if len(c.Languages) == 0 {
		c.Languages = append([]tool.Language(nil), tool.DefaultLanguages...)
	}
	return c
}

func (c *File) validate() error {
	for i, l := range c.Languages {
		if strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("languages[%d]: name is required", i)
		}
		if l.Suffix == "" {
			return fmt.Errorf("languages[%d] (%s): suffix is required", i, l.Name)
		}
		if !strings.HasPrefix(l.Suffix, ".") {
			c.Languages[i].Suffix = "." + l.Suffix
		}
	}
	return nil
}

// expandPath resolves "~/" and paths relative to the config file.
func expandPath(p, base string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}
