package pages

import (
	"fmt"
	"strings"
	"text/template"
)

// RenderPage renders the page body with vars applied over the defaults.
func RenderPage(page *Page, vars map[string]string) (string, error) {
	if page == nil {
		return "", fmt.Errorf("page is required")
	}

	data := make(map[string]string, len(vars))
	for key, value := range vars {
		data[key] = value
	}
	for _, variable := range page.Variables {
		if strings.TrimSpace(data[variable.Name]) != "" {
			continue
		}
		if variable.Default != "" {
			data[variable.Name] = variable.Default
			continue
		}
		if variable.Required {
			return "", fmt.Errorf("page %q: missing required variable %q", page.Name, variable.Name)
		}
	}

	parsed, err := template.New(page.Name).
		Funcs(template.FuncMap{"default": defaultValue, "upper": strings.ToUpper}).
		Option("missingkey=zero").
		Parse(page.Body)
	if err != nil {
		return "", fmt.Errorf("parse page %q: %w", page.Name, err)
	}

	var out strings.Builder
	if err := parsed.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render page %q: %w", page.Name, err)
	}
	return out.String(), nil
}

func defaultValue(def string, value any) string {
	if value == nil {
		return def
	}
	text := strings.TrimSpace(fmt.Sprint(value))
	if text == "" {
		return def
	}
	return text
}
