package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

// minMarkdownWidth keeps glamour from wrapping into a single column.
const minMarkdownWidth = 20

// renderMarkdown renders a Linear markdown description for the terminal.
// It falls back to plain word wrapping when glamour cannot render.
func renderMarkdown(src string, width int) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if out, err := r.Render(src); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wordwrap.String(src, width)
}

// clampLines truncates s to at most n lines, marking the cut with an ellipsis.
func clampLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	lines = lines[:n-1]
	lines = append(lines, dimStyle.Render("..."))
	return strings.Join(lines, "\n")
}
