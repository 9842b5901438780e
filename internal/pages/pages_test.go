package pages

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePage(t *testing.T, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return path
}

func TestLoadPage(t *testing.T) {
	path := writePage(t, t.TempDir(), "about.yaml", `name: About
body: |
  Hello {{.who}}
variables:
  - name: who
    required: true
`)

	page, err := LoadPage(path)
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if page.Name != "about" {
		t.Fatalf("expected lowercased name, got %q", page.Name)
	}
	if page.Title != "ABOUT" {
		t.Fatalf("expected title from name, got %q", page.Title)
	}
	if page.Source != path {
		t.Fatalf("expected source %q, got %q", path, page.Source)
	}
}

func TestParsePageErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", "body: hi\n"},
		{"missing body", "name: x\n"},
		{"bad yaml", "name: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePage([]byte(tt.body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestRenderPage(t *testing.T) {
	page := &Page{
		Name:      "greet",
		Body:      `Hello {{.name | default "world"}} from {{.brand | upper}}`,
		Variables: []PageVar{{Name: "name"}, {Name: "brand", Default: "acme"}},
	}

	rendered, err := RenderPage(page, map[string]string{})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if rendered != "Hello world from ACME" {
		t.Fatalf("unexpected render result: %q", rendered)
	}

	rendered, err = RenderPage(page, map[string]string{"name": "Ana", "brand": "tidal"})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if rendered != "Hello Ana from TIDAL" {
		t.Fatalf("unexpected render result: %q", rendered)
	}
}

func TestRenderPageRequired(t *testing.T) {
	page := &Page{Name: "req", Body: "{{.x}}", Variables: []PageVar{{Name: "x", Required: true}}}
	if _, err := RenderPage(page, nil); err == nil {
		t.Fatal("expected error for missing required variable")
	}
}

func TestBuiltinPagesRender(t *testing.T) {
	for _, name := range []string{About, Contact} {
		page, err := ResolvePage("", name)
		if err != nil {
			t.Fatalf("ResolvePage(%q): %v", name, err)
		}
		if page.Source != SourceBuiltin {
			t.Fatalf("expected builtin %s, got %q", name, page.Source)
		}
		body, err := RenderPage(page, nil)
		if err != nil {
			t.Fatalf("RenderPage(%q): %v", name, err)
		}
		if strings.Contains(body, "{{") {
			t.Fatalf("unrendered template in %s: %q", name, body)
		}
	}
}

func TestProjectPageShadowsBuiltin(t *testing.T) {
	project := t.TempDir()
	writePage(t, filepath.Join(project, ".wrapped", "pages"), "about.yml", "name: about\ntitle: HI\nbody: custom\n")

	page, err := ResolvePage(project, About)
	if err != nil {
		t.Fatalf("ResolvePage: %v", err)
	}
	if page.Title != "HI" || page.Body != "custom" {
		t.Fatalf("expected project page, got %+v", page)
	}

	if _, err := ResolvePage(project, "missing"); err == nil {
		t.Fatal("expected error for unknown page")
	}
}
