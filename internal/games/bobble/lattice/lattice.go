// Package lattice implements the hex-packed cell grid used by the bubble
// shooter: addressing between continuous positions and (row, col) cells,
// adjacency, and connectivity queries over the mutable Board.
//
// Odd rows are shifted right by one radius. Rows are sqrt(3)*radius apart so
// that touching pieces in adjacent rows sit exactly 2*radius apart.
//
// The package is pure: no I/O, no logging, no shared state.
package lattice

import "math"

// Geometry is the construction-time configuration of a lattice.
// It is never mutated after New.
type Geometry struct {
	Cols       int     // Cells per row
	Radius     float64 // Piece radius in world units (pixels)
	LeftMargin float64 // Distance from world x=0 to the left wall
	TopMargin  float64 // Distance from world y=0 to the ceiling frame
	Inset      float64 // Extra gap between the ceiling frame and row 0 centers
}

// Lattice converts between cells and world coordinates.
// It is a small value type and safe to copy.
type Lattice struct {
	geom  Geometry
	pitch float64
}

// New creates a lattice for the given geometry.
func New(g Geometry) Lattice {
	return Lattice{
		geom:  g,
		pitch: math.Sqrt(3) * g.Radius,
	}
}

// Geometry returns the configuration the lattice was built with.
func (l Lattice) Geometry() Geometry {
	return l.geom
}

// Cols returns the number of columns.
func (l Lattice) Cols() int {
	return l.geom.Cols
}

// Radius returns the piece radius.
func (l Lattice) Radius() float64 {
	return l.geom.Radius
}

// RowPitch returns the vertical distance between adjacent rows.
func (l Lattice) RowPitch() float64 {
	return l.pitch
}

// RowOffset returns the horizontal shift of a row: one radius for odd rows,
// zero for even rows.
func (l Lattice) RowOffset(row int) float64 {
	if isOdd(row) {
		return l.geom.Radius
	}
	return 0
}

// Baseline returns the y coordinate of row 0 centers for a drop offset.
func (l Lattice) Baseline(dropOffsetY float64) float64 {
	return l.geom.TopMargin + l.geom.Inset + dropOffsetY
}

// CellCenter returns the world-space center of a cell.
// Out-of-range cells still produce a coordinate; callers bounds-check.
func (l Lattice) CellCenter(row, col int, dropOffsetY float64) (x, y float64) {
	r := l.geom.Radius
	x = r + float64(col)*2*r + l.RowOffset(row) + l.geom.LeftMargin
	y = l.geom.TopMargin + float64(row)*l.pitch + dropOffsetY + l.geom.Inset
	return x, y
}

// NearbyCells returns the candidate cells around a world point.
//
// The row is estimated by rounding, then a 5x5 window of rows and columns is
// enumerated around the estimate. Negative rows and out-of-range columns are
// dropped; rows below the board are not, callers bounds-check those.
// The window is wide enough that the nearest cell is always included.
func (l Lattice) NearbyCells(x, y, dropOffsetY float64) []Cell {
	r := l.geom.Radius
	rowApprox := int(math.Floor((y-l.Baseline(dropOffsetY))/l.pitch + 0.5))
	if rowApprox < 0 {
		rowApprox = 0
	}

	cells := make([]Cell, 0, 25)
	for dr := -2; dr <= 2; dr++ {
		row := rowApprox + dr
		if row < 0 {
			continue
		}
		colApprox := int(math.Floor((x-(r+l.RowOffset(row)+l.geom.LeftMargin))/(2*r) + 0.5))
		for dc := -2; dc <= 2; dc++ {
			col := colApprox + dc
			if col < 0 || col >= l.geom.Cols {
				continue
			}
			cells = append(cells, Cell{Row: row, Col: col})
		}
	}
	return cells
}

// LowestCenterY returns the largest center y over all occupied cells.
// The second result is false when the board is empty.
func (l Lattice) LowestCenterY(b *Board, dropOffsetY float64) (float64, bool) {
	lowest := 0.0
	found := false
	for row := b.Rows() - 1; row >= 0 && !found; row-- {
		for col := 0; col < b.Cols(); col++ {
			if !b.Occupied(row, col) {
				continue
			}
			_, y := l.CellCenter(row, col, dropOffsetY)
			lowest = y
			found = true
			break
		}
	}
	return lowest, found
}

// DistSq returns the squared distance between a point and a cell center.
func (l Lattice) DistSq(c Cell, x, y, dropOffsetY float64) float64 {
	cx, cy := l.CellCenter(c.Row, c.Col, dropOffsetY)
	dx := cx - x
	dy := cy - y
	return dx*dx + dy*dy
}

func isOdd(n int) bool {
	return n%2 != 0
}
