package core

// Color is a foreground color for a screen cell. It holds either an ANSI
// 256-color code ("1", "245") or a hex color ("#e74c3c"), which is what
// lipgloss.Color accepts. The empty string is the terminal default.
type Color string

// Named colors for frames, HUD text and overlays.
const (
	ColorDefault      Color = ""
	ColorRed          Color = "1"
	ColorGreen        Color = "2"
	ColorYellow       Color = "3"
	ColorBlue         Color = "4"
	ColorMagenta      Color = "5"
	ColorCyan         Color = "6"
	ColorWhite        Color = "7"
	ColorBrightRed    Color = "9"
	ColorBrightGreen  Color = "10"
	ColorBrightYellow Color = "11"
	ColorBrightWhite  Color = "15"
	ColorOrange       Color = "208"
	ColorGray         Color = "245"
	ColorDarkGray     Color = "238"
)

// IsHex reports whether the color is a "#rrggbb" value.
func (c Color) IsHex() bool {
	return len(c) == 7 && c[0] == '#'
}
