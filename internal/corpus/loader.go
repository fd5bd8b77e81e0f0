package corpus

// #region imports
import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region load-dir

// LoadDir reads every category file (one category per .yaml file) from dir.
// Files are loaded in lexical filename order; that order is the declared
// category order and determines execution order for the whole run.
func LoadDir(dir string) ([]Category, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no category files in %s", dir)
	}

	categories := make([]Category, 0, len(names))
	seen := make(map[string]string)
	for _, name := range names {
		cat, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[cat.Spec.Name]; dup {
			return nil, fmt.Errorf("category %s declared in both %s and %s", cat.Spec.Name, prev, name)
		}
		seen[cat.Spec.Name] = name
		categories = append(categories, cat)
	}
	return categories, nil
}

// #endregion

// #region load-file

// LoadFile reads and validates a single category file.
func LoadFile(path string) (Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Category{}, fmt.Errorf("read category file: %w", err)
	}

	var cat Category
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Category{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if err := cat.Validate(); err != nil {
		return Category{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cat, nil
}

// #endregion
