// Package comment maps file extensions to comment delimiters and decides
// which paths are tagging targets.
package comment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the optional per-repository configuration file, looked up at
// the repository root.
const ConfigFile = ".lazytag.yaml"

// Table maps lower-cased file extensions to the comment delimiter of that
// language. Lookups are case-insensitive. A Table is immutable once built
// and is passed into the components that need it.
type Table struct {
	delims  map[string]string
	exclude []string
}

// Config is the schema of the optional config file. Delimiters extend or
// override the built-in table; exclude patterns keep paths out of tagging.
type Config struct {
	Delimiters map[string]string `yaml:"delimiters"`
	Exclude    []string          `yaml:"exclude"`
}

// Default returns the built-in extension table.
func Default() *Table {
	return &Table{delims: map[string]string{
		".py":  "#",
		".c":   "//",
		".cpp": "//",
		".h":   "//",
		".hpp": "//",
		".rs":  "//",
		".adb": "--",
		".ads": "--",
		".ada": "--",
	}}
}

// Load returns the default table extended by the config file under root, if
// one exists. A missing config file is not an error.
func Load(root string) (*Table, error) {
	table := Default()
	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFile, err)
	}

	for ext, delim := range cfg.Delimiters {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		table.delims[strings.ToLower(ext)] = delim
	}
	table.exclude = cfg.Exclude
	return table, nil
}

// NewTable builds a table from an explicit extension mapping. Used by tests
// and callers that do not want the built-in defaults.
func NewTable(delims map[string]string, exclude []string) *Table {
	m := make(map[string]string, len(delims))
	for ext, delim := range delims {
		m[strings.ToLower(ext)] = delim
	}
	return &Table{delims: m, exclude: exclude}
}

// Delimiter returns the comment delimiter for path's extension.
func (t *Table) Delimiter(path string) (string, bool) {
	delim, ok := t.delims[strings.ToLower(filepath.Ext(path))]
	return delim, ok
}

// Selects reports whether path is a tagging target: a known extension that
// no exclude pattern matches.
func (t *Table) Selects(path string) bool {
	if _, ok := t.Delimiter(path); !ok {
		return false
	}
	slashed := filepath.ToSlash(path)
	for _, pattern := range t.exclude {
		match, err := doublestar.Match(pattern, slashed)
		if err != nil {
			continue
		}
		if match {
			return false
		}
	}
	return true
}
