package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// truncate shortens s to at most width cells, ending in an ellipsis when
// cut. A non-positive width leaves s alone; the screen size is unknown.
func truncate(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// padRight fills s with spaces up to width cells.
func padRight(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
