package lattice

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// ColorKey identifies a piece color. All grid algorithms match on it.
// Keys are canonical lowercase "#rrggbb" strings once loaded.
type ColorKey string

// Piece is a placed or in-flight game object.
type Piece struct {
	Color   ColorKey // Matching identity
	Variant int      // Cosmetic variant, ignored by the grid algorithms
}

// Placement errors.
var (
	ErrOutOfBounds = errors.New("lattice: cell out of bounds")
	ErrOccupied    = errors.New("lattice: cell occupied")
	ErrEmptyPiece  = errors.New("lattice: piece has no color")
)

// Board is the table of cells. Row 0 is the ceiling row.
// Cells are stored in row-major order: index = row*cols + col.
type Board struct {
	rows   int
	cols   int
	cells  []Piece
	filled []bool
}

// NewBoard allocates an empty board. Its size is fixed for the session.
func NewBoard(rows, cols int) *Board {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Board{
		rows:   rows,
		cols:   cols,
		cells:  make([]Piece, rows*cols),
		filled: make([]bool, rows*cols),
	}
}

// Rows returns the board height in rows.
func (b *Board) Rows() int {
	return b.rows
}

// Cols returns the board width in columns.
func (b *Board) Cols() int {
	return b.cols
}

// Key returns the flat index of a cell. Only valid for in-bounds cells.
func (b *Board) Key(row, col int) int {
	return row*b.cols + col
}

// InBounds reports whether 0 <= row < rows and 0 <= col < cols.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// At returns the piece at a cell and whether the cell is occupied.
func (b *Board) At(row, col int) (Piece, bool) {
	if !b.InBounds(row, col) {
		return Piece{}, false
	}
	i := b.Key(row, col)
	return b.cells[i], b.filled[i]
}

// Occupied reports whether an in-bounds cell holds a piece.
func (b *Board) Occupied(row, col int) bool {
	if !b.InBounds(row, col) {
		return false
	}
	return b.filled[b.Key(row, col)]
}

// Place writes a piece into an empty cell.
func (b *Board) Place(row, col int, p Piece) error {
	if !b.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d board", ErrOutOfBounds, row, col, b.rows, b.cols)
	}
	if p.Color == "" {
		return ErrEmptyPiece
	}
	i := b.Key(row, col)
	if b.filled[i] {
		return fmt.Errorf("%w: (%d,%d)", ErrOccupied, row, col)
	}
	b.cells[i] = p
	b.filled[i] = true
	return nil
}

// PlaceAt is Place reporting success as a bool.
func (b *Board) PlaceAt(row, col int, p Piece) bool {
	return b.Place(row, col, p) == nil
}

// Take empties a cell and returns what it held.
func (b *Board) Take(row, col int) (Piece, bool) {
	p, ok := b.At(row, col)
	if !ok {
		return Piece{}, false
	}
	i := b.Key(row, col)
	b.cells[i] = Piece{}
	b.filled[i] = false
	return p, true
}

// Remove empties every listed cell and returns the removed pieces in order.
// Empty or out-of-bounds cells are skipped.
func (b *Board) Remove(cells []Cell) []Piece {
	removed := make([]Piece, 0, len(cells))
	for _, c := range cells {
		if p, ok := b.Take(c.Row, c.Col); ok {
			removed = append(removed, p)
		}
	}
	return removed
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for _, f := range b.filled {
		if f {
			n++
		}
	}
	return n
}

// IsCleared reports whether no cell is occupied.
func (b *Board) IsCleared() bool {
	for _, f := range b.filled {
		if f {
			return false
		}
	}
	return true
}

// ExistingColors returns the distinct colors on the board in row-major
// order of first appearance. Empty when the board is empty.
func (b *Board) ExistingColors() []ColorKey {
	seen := mapset.New[ColorKey]()
	var colors []ColorKey
	for i, f := range b.filled {
		if !f {
			continue
		}
		c := b.cells[i].Color
		if seen.Has(c) {
			continue
		}
		seen.Put(c)
		colors = append(colors, c)
	}
	return colors
}

// FindCluster returns every cell reachable from the start cell through
// neighbors holding the same color, in BFS order. The start cell comes first.
// Returns nil if the start cell is empty or out of bounds.
func (b *Board) FindCluster(startRow, startCol int) []Cell {
	start, ok := b.At(startRow, startCol)
	if !ok {
		return nil
	}
	color := start.Color

	visited := newCellSet(b.cols)
	visited.add(startRow, startCol)
	queue := []Cell{{Row: startRow, Col: startCol}}
	var result []Cell

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, nb := range Neighbors(current.Row, current.Col) {
			if !b.InBounds(nb.Row, nb.Col) || visited.Contains(nb.Row, nb.Col) {
				continue
			}
			p, occupied := b.At(nb.Row, nb.Col)
			if !occupied || p.Color != color {
				continue
			}
			visited.add(nb.Row, nb.Col)
			queue = append(queue, nb)
		}
	}
	return result
}

// FindCeilingConnected returns every occupied cell reachable from an occupied
// row-0 cell through occupied neighbors. Occupied cells outside the set are
// floating.
func (b *Board) FindCeilingConnected() CellSet {
	visited := newCellSet(b.cols)
	var queue []Cell
	if b.rows > 0 {
		for col := 0; col < b.cols; col++ {
			if b.Occupied(0, col) {
				visited.add(0, col)
				queue = append(queue, Cell{Row: 0, Col: col})
			}
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, nb := range Neighbors(current.Row, current.Col) {
			if !b.Occupied(nb.Row, nb.Col) || visited.Contains(nb.Row, nb.Col) {
				continue
			}
			visited.add(nb.Row, nb.Col)
			queue = append(queue, nb)
		}
	}
	return visited
}

// Floating returns the occupied cells absent from a ceiling-connected set,
// in row-major order.
func (b *Board) Floating(connected CellSet) []Cell {
	var cells []Cell
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			if b.Occupied(row, col) && !connected.Contains(row, col) {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}
	return cells
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Piece, len(b.cells))
	copy(cells, b.cells)
	filled := make([]bool, len(b.filled))
	copy(filled, b.filled)
	return &Board{
		rows:   b.rows,
		cols:   b.cols,
		cells:  cells,
		filled: filled,
	}
}

// Equal reports whether two boards have the same size and contents.
func (b *Board) Equal(other *Board) bool {
	if b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for i := range b.cells {
		if b.filled[i] != other.filled[i] {
			return false
		}
		if b.filled[i] && b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
