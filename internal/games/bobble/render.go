package bobble

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-bobble/internal/core"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
)

// Visual characters for rendering
const (
	ShooterChar  = '▲'
	GuideChar    = '·'
	DangerChar   = '┄'
	CeilingChar  = '▒'
	hudHeight    = 2 // Score line and separator
	panelWidth   = 14
	guideDash    = 10 // World units drawn per dash
	guideGap     = 6
	minGuideFrom = 2 // Guide starts this many radii from the emitter
)

// layout maps world coordinates to screen cells. One column is one radius
// and one line is one row pitch, so odd rows land one column to the right.
type layout struct {
	valid    bool
	ox, oy   int       // Screen cell of field column 0, line 0
	field    core.Rect // Field interior in screen cells
	width    int
	lines    int
	originX  float64
	originY  float64
	radius   float64
	pitch    float64
	minW     int
	minH     int
	hasPanel bool
}

func (g *Game) computeLayout(w, h int) layout {
	geo := g.cfg.Geometry
	v := layout{
		originX: geo.LeftMargin + geo.Radius,
		originY: geo.TopMargin + geo.Inset,
		radius:  geo.Radius,
		pitch:   g.lat.RowPitch(),
		width:   2*geo.Cols + 1,
	}
	v.lines = int(math.Round((geo.FieldHeight-v.originY)/v.pitch)) + 1
	v.minW = v.width + 2
	v.minH = hudHeight + 1 + v.lines + 1
	if w < v.minW || h < v.minH {
		return v
	}
	v.valid = true
	v.hasPanel = w >= v.minW+1+panelWidth

	total := v.minW
	if v.hasPanel {
		total += 1 + panelWidth
	}
	v.ox = (w-total)/2 + 1
	v.oy = hudHeight + 1
	v.field = core.NewRect(v.ox, v.oy, v.width, v.lines)
	return v
}

// toScreen returns the screen cell of a world point.
func (v layout) toScreen(x, y float64) (int, int) {
	col := int(math.Round((x - v.originX) / v.radius))
	line := int(math.Round((y - v.originY) / v.pitch))
	return v.ox + col, v.oy + line
}

// toWorld returns the world point of a screen cell. False until the game
// has been rendered at a usable size.
func (v layout) toWorld(sx, sy int) (float64, float64, bool) {
	if !v.valid {
		return 0, 0, false
	}
	x := v.originX + float64(sx-v.ox)*v.radius
	y := v.originY + float64(sy-v.oy)*v.pitch
	return x, y, true
}

// inField reports whether a screen cell is inside the field frame.
func (v layout) inField(sx, sy int) bool {
	return v.field.Contains(sx, sy)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	v := g.computeLayout(dst.Width(), dst.Height())
	g.view = v

	// Check for screen too small
	if !v.valid {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", v.minW, v.minH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	g.renderHUD(dst)
	g.renderField(dst, v)
	g.renderBoard(dst, v)
	if g.phase == core.PhaseReady {
		g.renderAimGuide(dst, v)
	}
	g.renderShooter(dst, v)
	g.renderMoving(dst, v)
	if v.hasPanel {
		g.renderPanel(dst, v)
	}
	g.renderOverlay(dst)
}

// renderHUD draws the score, level and best score.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.score))
	dst.DrawTextCenteredColored(0, g.levelLabel(), core.ColorBrightWhite)
	best := fmt.Sprintf("Best: %d", g.Best())
	dst.DrawText(dst.Width()-utf8.RuneCountInString(best)-1, 0, best)
	dst.DrawHLineColored(0, 1, dst.Width(), '─', core.ColorDarkGray)
}

func (g *Game) levelLabel() string {
	if len(g.campaign) == 0 {
		return g.level.Name
	}
	name := g.level.Name
	if name == "" {
		name = g.level.ID
	}
	return fmt.Sprintf("%s (%d/%d)", name, g.levelIndex+1, len(g.campaign))
}

// renderField draws the frame, the lowered ceiling and the danger line.
func (g *Game) renderField(dst *core.Screen, v layout) {
	dst.DrawBoxColored(v.field.Inset(-1), core.ColorGray)

	dropLines := int(math.Round(g.dropOffsetY / v.pitch))
	for line := 0; line < dropLines && line < v.lines; line++ {
		dst.DrawHLineColored(v.ox, v.oy+line, v.width, CeilingChar, core.ColorDarkGray)
	}

	danger := int(math.Ceil((g.dangerY - v.radius - v.originY) / v.pitch))
	if danger >= 0 && danger < v.lines {
		dst.DrawHLineColored(v.ox, v.oy+danger, v.width, DangerChar, core.ColorRed)
	}
}

// renderBoard draws every placed piece.
func (g *Game) renderBoard(dst *core.Screen, v layout) {
	for row := 0; row < g.board.Rows(); row++ {
		for col := 0; col < g.board.Cols(); col++ {
			p, ok := g.board.At(row, col)
			if !ok {
				continue
			}
			x, y := g.lat.CellCenter(row, col, g.dropOffsetY)
			g.drawPiece(dst, v, x, y, p)
		}
	}
}

// renderAimGuide draws a dashed line from the emitter toward the aim point,
// tinted with a dimmed version of the loaded color.
func (g *Game) renderAimGuide(dst *core.Screen, v layout) {
	dx := g.aimX - g.shooterX
	dy := g.aimY - g.shooterY
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	ux, uy := dx/l, dy/l
	color := dimColor(g.next.Color)

	total := g.cfg.Play.AimGuideLen
	for t := minGuideFrom * v.radius; t < total; t += guideDash + guideGap {
		sx, sy := v.toScreen(g.shooterX+ux*t, g.shooterY+uy*t)
		if !v.inField(sx, sy) {
			continue
		}
		if c := dst.GetCell(sx, sy); c.Rune == ' ' || c.Rune == DangerChar {
			dst.SetColored(sx, sy, GuideChar, color)
		}
	}
}

// renderShooter draws the loaded piece on the emitter with a marker below.
func (g *Game) renderShooter(dst *core.Screen, v layout) {
	sx, sy := v.toScreen(g.shooterX, g.shooterY)
	dst.SetColored(sx, sy+1, ShooterChar, core.ColorGray)
	if g.phase == core.PhaseReady && g.next.Color != "" {
		g.drawPiece(dst, v, g.shooterX, g.shooterY, g.next)
	}
}

// renderMoving draws the projectile in flight.
func (g *Game) renderMoving(dst *core.Screen, v layout) {
	if g.moving == nil {
		return
	}
	g.drawPiece(dst, v, g.moving.X, g.moving.Y, g.moving.Placed())
}

// renderPanel draws the next piece and the shot counters beside the field.
func (g *Game) renderPanel(dst *core.Screen, v layout) {
	x := v.ox + v.width + 2
	y := v.oy

	dst.DrawTextColored(x, y, "Next", core.ColorGray)
	if g.next.Color != "" {
		dst.SetColored(x+5, y, g.glyph(g.next), core.Color(g.next.Color))
	}
	dst.DrawText(x, y+2, fmt.Sprintf("Drop in %d", g.ShotsUntilDrop()))
	dst.DrawText(x, y+3, fmt.Sprintf("Shots   %d", g.shotsUsed))
	dst.DrawText(x, y+4, fmt.Sprintf("Left    %d", g.board.Count()))
	dst.DrawText(x, y+5, fmt.Sprintf("Aim     %.0f°", AimAngle(g.shooterX, g.shooterY, g.aimX, g.aimY)))
}

// renderOverlay draws game state messages.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch g.phase {
	case core.PhaseReady:
		if g.shotsUsed == 0 {
			dst.DrawTextCenteredColored(dst.Height()-1, "SPACE to fire, ←/→ or mouse to aim", core.ColorGray)
		}

	case core.PhasePaused:
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")

	case core.PhaseOver:
		subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", g.score)
		g.drawCenteredBox(dst, "GAME OVER", subtitle)

	case core.PhaseClear:
		if g.won() || len(g.campaign) == 0 {
			subtitle := fmt.Sprintf("Final Score: %d  |  Press R to restart", g.score)
			if len(g.campaign) == 0 {
				subtitle = fmt.Sprintf("Score: %d  |  ENTER for a new board", g.score)
			}
			g.drawCenteredBox(dst, "GAME CLEAR!", subtitle)
			return
		}
		g.drawCenteredBox(dst, "LEVEL CLEAR", "Press ENTER for the next level")
	}
}

// drawCenteredBox draws a centered message box.
func (g *Game) drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()
	titleLen := utf8.RuneCountInString(title)
	subLen := utf8.RuneCountInString(subtitle)

	boxW := max(titleLen, subLen) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box background
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	// Draw text
	dst.DrawTextColored(boxX+(boxW-titleLen)/2, boxY+1, title, core.ColorBrightYellow)
	dst.DrawText(boxX+(boxW-subLen)/2, boxY+3, subtitle)
}

// drawPiece draws a piece centered at a world point. Pieces take two
// columns: the glyph and a gap, which is what makes the rows interleave.
func (g *Game) drawPiece(dst *core.Screen, v layout, x, y float64, p lattice.Piece) {
	sx, sy := v.toScreen(x, y)
	if !v.inField(sx, sy) {
		return
	}
	dst.SetColored(sx, sy, g.glyph(p), core.Color(p.Color))
}

// glyph returns the first rune of the palette glyph for a piece.
func (g *Game) glyph(p lattice.Piece) rune {
	r, _ := utf8.DecodeRuneInString(g.palette.Glyph(p))
	return r
}

// dimColor darkens a color key for the aim guide.
func dimColor(key lattice.ColorKey) core.Color {
	c, err := colorful.Hex(string(key))
	if err != nil {
		return core.ColorGray
	}
	return core.Color(c.BlendLab(colorful.Color{}, 0.45).Clamped().Hex())
}
