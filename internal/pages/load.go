package pages

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceBuiltin marks pages that came from the embedded set.
const SourceBuiltin = "builtin"

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadPage reads a single page from disk.
func LoadPage(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", path, err)
	}
	page, err := parsePage(data)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", path, err)
	}
	page.Source = path
	return page, nil
}

// LoadPagesFromDir loads every YAML page in dir. A missing dir is empty.
func LoadPagesFromDir(dir string) ([]*Page, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pages dir %s: %w", dir, err)
	}

	var pages []*Page
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		page, err := LoadPage(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Name < pages[j].Name
	})
	return pages, nil
}

// LoadBuiltinPages returns the pages bundled with the binary.
func LoadBuiltinPages() ([]*Page, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin pages: %w", err)
	}

	pages := make([]*Page, 0, len(entries))
	for _, entry := range entries {
		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin page %s: %w", entry.Name(), err)
		}
		page, err := parsePage(data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin page %s: %w", entry.Name(), err)
		}
		page.Source = SourceBuiltin
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Name < pages[j].Name
	})
	return pages, nil
}

func parsePage(data []byte) (*Page, error) {
	var page Page
	if err := yaml.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	page.Name = strings.ToLower(strings.TrimSpace(page.Name))
	if page.Name == "" {
		return nil, fmt.Errorf("page name is required")
	}
	if strings.TrimSpace(page.Body) == "" {
		return nil, fmt.Errorf("page %q has no body", page.Name)
	}
	if strings.TrimSpace(page.Title) == "" {
		page.Title = strings.ToUpper(page.Name)
	}
	return &page, nil
}
