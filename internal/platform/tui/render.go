package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bobble/internal/core"
)

// colorStyles caches one lipgloss style per color. Palette colors are hex
// keys, so the set grows with the levels that are played.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
}

// styleFor returns the cached style for a color.
func styleFor(c core.Color) lipgloss.Style {
	if s, ok := colorStyles[c]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(string(c)))
	colorStyles[c] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
