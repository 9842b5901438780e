package pages

import (
	"fmt"
	"os"
	"path/filepath"
)

// PageSearchPaths returns page directories in precedence order.
func PageSearchPaths(projectDir string) []string {
	paths := make([]string, 0, 2)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".wrapped", "pages"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "wrapped", "pages"))
	}
	return paths
}

// LoadPagesFromSearchPaths loads pages with first-hit precedence; builtin
// pages fill in names not found on disk.
func LoadPagesFromSearchPaths(projectDir string) ([]*Page, error) {
	seen := make(map[string]struct{})
	var resolved []*Page
	add := func(items []*Page) {
		for _, page := range items {
			if _, exists := seen[page.Name]; exists {
				continue
			}
			seen[page.Name] = struct{}{}
			resolved = append(resolved, page)
		}
	}

	for _, path := range PageSearchPaths(projectDir) {
		items, err := LoadPagesFromDir(path)
		if err != nil {
			return nil, err
		}
		add(items)
	}

	builtins, err := LoadBuiltinPages()
	if err != nil {
		return nil, err
	}
	add(builtins)
	return resolved, nil
}

// ResolvePage finds a page by name.
func ResolvePage(projectDir, name string) (*Page, error) {
	items, err := LoadPagesFromSearchPaths(projectDir)
	if err != nil {
		return nil, err
	}
	for _, page := range items {
		if page.Name == name {
			return page, nil
		}
	}
	return nil, fmt.Errorf("page %q not found", name)
}
