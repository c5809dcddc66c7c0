package lattice

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Cell addresses one lattice slot.
type Cell struct {
	Row int
	Col int
}

// String returns the "row,col" form of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

// Add returns the cell offset by a delta.
func (c Cell) Add(d Cell) Cell {
	return Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
}

// Delta tables for the six hex neighbors. Odd rows sit one radius to the
// right, so their diagonal neighbors are at col and col+1; even rows reach
// col-1 and col.
var (
	oddDeltas = [6]Cell{
		{-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, 0}, {1, 1},
	}
	evenDeltas = [6]Cell{
		{-1, -1}, {-1, 0},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0},
	}
)

// NeighborDeltas returns the neighbor offsets for a row parity.
func NeighborDeltas(odd bool) [6]Cell {
	if odd {
		return oddDeltas
	}
	return evenDeltas
}

// Neighbors returns the six lattice-adjacent cells.
// The result is not bounds-checked.
func Neighbors(row, col int) [6]Cell {
	deltas := NeighborDeltas(isOdd(row))
	origin := Cell{Row: row, Col: col}
	var out [6]Cell
	for i, d := range deltas {
		out[i] = origin.Add(d)
	}
	return out
}

// CellSet is a set of cells keyed by their flat row*cols+col index.
type CellSet struct {
	cols int
	set  mapset.Set[int]
}

func newCellSet(cols int) CellSet {
	return CellSet{cols: cols, set: mapset.New[int]()}
}

func (s CellSet) key(row, col int) int {
	return row*s.cols + col
}

func (s CellSet) add(row, col int) {
	s.set.Put(s.key(row, col))
}

// Contains reports whether the cell is in the set.
func (s CellSet) Contains(row, col int) bool {
	if col < 0 || col >= s.cols || row < 0 {
		return false
	}
	return s.set.Has(s.key(row, col))
}

// Len returns the number of cells in the set.
func (s CellSet) Len() int {
	return s.set.Size()
}

// Cells returns the members in row-major order.
func (s CellSet) Cells() []Cell {
	keys := make([]int, 0, s.set.Size())
	s.set.Each(func(k int) {
		keys = append(keys, k)
	})
	sort.Ints(keys)

	cells := make([]Cell, len(keys))
	for i, k := range keys {
		cells[i] = Cell{Row: k / s.cols, Col: k % s.cols}
	}
	return cells
}

// Keys returns the members as "row,col" strings in row-major order.
func (s CellSet) Keys() []string {
	cells := s.Cells()
	keys := make([]string, len(cells))
	for i, c := range cells {
		keys[i] = c.String()
	}
	return keys
}
