package ascii

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown for the terminal, falling back to the
// plain text when rendering fails
func Markdown(s string) string {
	out, err := glamour.Render(s, "dark")
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n") + "\n"
}
