package components

import (
	"strings"

	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

// KeyHint is one keyboard shortcut shown in a footer.
type KeyHint struct {
	Key     string
	Label   string
	Enabled bool
}

// RenderHintBar renders enabled hints as "KEY LABEL" pairs.
func RenderHintBar(st styles.Styles, hints []KeyHint) string {
	parts := make([]string, 0, len(hints))
	for _, hint := range hints {
		if !hint.Enabled {
			continue
		}
		parts = append(parts, st.Key.Render(strings.ToUpper(hint.Key))+" "+st.Muted.Render(hint.Label))
	}
	return strings.Join(parts, "   ")
}
