package levels

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed defaults/levels.yaml
var defaultLevelsYAML []byte

// defaultCatalog is parsed once at package init. A broken embedded file is
// a build defect, so it panics.
var defaultCatalog = mustParse(defaultLevelsYAML)

func mustParse(data []byte) *Catalog {
	c, err := ParseYAML(data)
	if err != nil {
		panic(fmt.Sprintf("levels: embedded catalog: %v", err))
	}
	return c
}

// Default returns the built-in catalog. The returned value is shared.
func Default() *Catalog {
	return defaultCatalog
}

// DefaultYAML returns the embedded catalog source.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultLevelsYAML...)
}

// LoadFile loads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("levels: unsupported file extension %q", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: reading file %s: %w", path, err)
	}
	c, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("levels: parsing file %s: %w", path, err)
	}
	return c, nil
}

// Load returns the catalog at customPath, or the built-in one when
// customPath is empty.
func Load(customPath string) (*Catalog, error) {
	if customPath == "" {
		return Default(), nil
	}
	return LoadFile(expandHome(customPath))
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
