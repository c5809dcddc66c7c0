// Package resolver decides what happens when a moving piece meets the
// lattice: side-wall reflection, ceiling contact, contact with placed pieces,
// and which empty cell the piece snaps into.
//
// Every function is pure apart from ReflectIfNeeded and Advance, which mutate
// the moving piece they are given. The board is only read.
package resolver

import (
	"math"

	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
)

// DefaultEpsilon is the contact tolerance subtracted from the touch distance.
const DefaultEpsilon = 0.5

// Piece is a projectile in flight. It exists only while a shot is resolving.
type Piece struct {
	X, Y    float64 // Center in world units
	VX, VY  float64 // Velocity in world units per second
	Radius  float64
	Color   lattice.ColorKey
	Variant int
}

// Advance moves the piece by its velocity over dt seconds.
func (p *Piece) Advance(dt float64) {
	p.X += p.VX * dt
	p.Y += p.VY * dt
}

// StepBack undoes one Advance of dt seconds.
func (p *Piece) StepBack(dt float64) {
	p.X -= p.VX * dt
	p.Y -= p.VY * dt
}

// Speed returns the magnitude of the piece velocity.
func (p *Piece) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// Placed returns the lattice piece this projectile becomes once snapped.
func (p *Piece) Placed() lattice.Piece {
	return lattice.Piece{Color: p.Color, Variant: p.Variant}
}

// Bounds are the inner x coordinates of the left and right walls.
type Bounds struct {
	Left  float64
	Right float64
}

// Contact describes a collision with a placed piece.
type Contact struct {
	Hit  bool
	Row  int
	Col  int
	X, Y float64 // Center of the touched cell
}

// Cell returns the touched cell.
func (c Contact) Cell() lattice.Cell {
	return lattice.Cell{Row: c.Row, Col: c.Col}
}

// ReflectIfNeeded flips the horizontal velocity when the piece touches a wall
// while moving toward it. It reports whether a flip happened. Because the flip
// requires motion toward the wall, a piece still overlapping the wall on the
// next step is not flipped back.
func ReflectIfNeeded(p *Piece, b Bounds) bool {
	if p.X-p.Radius <= b.Left && p.VX < 0 {
		p.VX = -p.VX
		return true
	}
	if p.X+p.Radius >= b.Right && p.VX > 0 {
		p.VX = -p.VX
		return true
	}
	return false
}

// HitCeiling reports whether the piece's top edge has reached ceilingY.
func HitCeiling(p *Piece, ceilingY, radius float64) bool {
	return p.Y-radius <= ceilingY
}

// CheckCollision scans the board in row-major order and returns the first
// occupied cell whose center lies within 2*radius - epsilon of the piece.
// The first match wins, not the closest.
func CheckCollision(p *Piece, l lattice.Lattice, b *lattice.Board, dropOffsetY, radius, epsilon float64) Contact {
	minD := radius*2 - epsilon
	minD2 := minD * minD
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < b.Cols(); col++ {
			if !b.Occupied(row, col) {
				continue
			}
			x, y := l.CellCenter(row, col, dropOffsetY)
			dx := p.X - x
			dy := p.Y - y
			if dx*dx+dy*dy <= minD2 {
				return Contact{Hit: true, Row: row, Col: col, X: x, Y: y}
			}
		}
	}
	return Contact{}
}

// ChooseSnapCell picks the empty cell a piece snaps into after touching the
// piece at around. Candidates are around itself and its six neighbors; if none
// of those is free, the cells near the impact point are tried. The candidate
// whose center is nearest the impact point wins, and on equal distances the
// first one enumerated is kept. The second result is false when no candidate
// exists.
func ChooseSnapCell(l lattice.Lattice, b *lattice.Board, dropOffsetY, impactX, impactY float64, around lattice.Cell) (lattice.Cell, bool) {
	pick := nearestPicker{l: l, b: b, drop: dropOffsetY, x: impactX, y: impactY}

	pick.consider(around)
	for _, nb := range lattice.Neighbors(around.Row, around.Col) {
		pick.consider(nb)
	}
	if pick.found {
		return pick.best, true
	}

	for _, c := range l.NearbyCells(impactX, impactY, dropOffsetY) {
		pick.consider(c)
	}
	return pick.best, pick.found
}

// ChooseCeilingCell picks the nearest empty row-0 cell around a piece that hit
// the ceiling. The second result is false when every nearby row-0 cell is
// taken.
func ChooseCeilingCell(l lattice.Lattice, b *lattice.Board, dropOffsetY, x, y float64) (lattice.Cell, bool) {
	pick := nearestPicker{l: l, b: b, drop: dropOffsetY, x: x, y: y}
	for _, c := range l.NearbyCells(x, y, dropOffsetY) {
		if c.Row != 0 {
			continue
		}
		pick.consider(c)
	}
	return pick.best, pick.found
}

// nearestPicker keeps the in-bounds empty cell closest to a point.
type nearestPicker struct {
	l     lattice.Lattice
	b     *lattice.Board
	drop  float64
	x, y  float64
	best  lattice.Cell
	bestD float64
	found bool
}

func (n *nearestPicker) consider(c lattice.Cell) {
	if !n.b.InBounds(c.Row, c.Col) || n.b.Occupied(c.Row, c.Col) {
		return
	}
	d := n.l.DistSq(c, n.x, n.y, n.drop)
	if !n.found || d < n.bestD {
		n.best = c
		n.bestD = d
		n.found = true
	}
}

// Resolver bundles a lattice with a contact tolerance so callers do not have
// to pass the radius around.
type Resolver struct {
	Lattice lattice.Lattice
	Epsilon float64
}

// New creates a resolver. A non-positive epsilon selects DefaultEpsilon.
func New(l lattice.Lattice, epsilon float64) Resolver {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return Resolver{Lattice: l, Epsilon: epsilon}
}

// CeilingY returns the y coordinate at which a piece touches the ceiling,
// which is the row-0 center line.
func (r Resolver) CeilingY(dropOffsetY float64) float64 {
	return r.Lattice.Baseline(dropOffsetY)
}

// HitCeiling is HitCeiling with the lattice radius.
func (r Resolver) HitCeiling(p *Piece, dropOffsetY float64) bool {
	return HitCeiling(p, r.CeilingY(dropOffsetY), r.Lattice.Radius())
}

// Collide is CheckCollision with the lattice radius and the resolver epsilon.
func (r Resolver) Collide(p *Piece, b *lattice.Board, dropOffsetY float64) Contact {
	return CheckCollision(p, r.Lattice, b, dropOffsetY, r.Lattice.Radius(), r.Epsilon)
}

// Snap is ChooseSnapCell using the piece position as the impact point.
func (r Resolver) Snap(p *Piece, b *lattice.Board, dropOffsetY float64, around lattice.Cell) (lattice.Cell, bool) {
	return ChooseSnapCell(r.Lattice, b, dropOffsetY, p.X, p.Y, around)
}

// SnapCeiling is ChooseCeilingCell at the piece position.
func (r Resolver) SnapCeiling(p *Piece, b *lattice.Board, dropOffsetY float64) (lattice.Cell, bool) {
	return ChooseCeilingCell(r.Lattice, b, dropOffsetY, p.X, p.Y)
}
