// Package core holds the types shared by games and the platform: the screen
// buffer, input frames, runtime config, phases, events and sounds. It has no
// terminal dependencies so game logic stays testable.
package core

// Rect is a rectangle of screen cells.
type Rect struct {
	X, Y int // Top-left cell
	W, H int
}

// NewRect creates a rectangle at (x, y) of size w x h.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the first line below the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether the cell (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n cells on every side. A negative n grows
// it, which is how a frame is drawn around an area.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
}
