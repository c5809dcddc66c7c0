package resolver_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/resolver"
)

const radius = 18

func newLattice() lattice.Lattice {
	return lattice.New(lattice.Geometry{
		Cols:       12,
		Radius:     radius,
		LeftMargin: 24,
		TopMargin:  24,
		Inset:      24,
	})
}

const red lattice.ColorKey = "#e74c3c"

func TestReflectIfNeeded(t *testing.T) {
	bounds := resolver.Bounds{Left: 24, Right: 480}

	testCases := []struct {
		name    string
		x, vx   float64
		flipped bool
	}{
		{"left wall moving left", 24 + radius - 1, -100, true},
		{"left wall moving right", 24 + radius - 1, 100, false},
		{"right wall moving right", 480 - radius + 1, 100, true},
		{"right wall moving left", 480 - radius + 1, -100, false},
		{"middle", 250, -100, false},
		{"exactly touching left", 24 + radius, -50, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := &resolver.Piece{X: tc.x, Y: 300, VX: tc.vx, VY: -500, Radius: radius}
			got := resolver.ReflectIfNeeded(p, bounds)
			if got != tc.flipped {
				t.Errorf("ReflectIfNeeded() = %v, expected %v", got, tc.flipped)
			}
			wantVX := tc.vx
			if tc.flipped {
				wantVX = -tc.vx
			}
			if p.VX != wantVX {
				t.Errorf("VX = %v, expected %v", p.VX, wantVX)
			}
			if p.VY != -500 {
				t.Errorf("VY changed to %v", p.VY)
			}
		})
	}
}

func TestReflectFlipsOncePerCrossing(t *testing.T) {
	bounds := resolver.Bounds{Left: 24, Right: 480}
	p := &resolver.Piece{X: 50, Y: 400, VX: -640, VY: -10, Radius: radius}

	flips := 0
	for i := 0; i < 10; i++ {
		p.Advance(1.0 / 60)
		if resolver.ReflectIfNeeded(p, bounds) {
			flips++
		}
	}
	if flips != 1 {
		t.Errorf("expected exactly one flip, got %d", flips)
	}
	if p.VX <= 0 {
		t.Errorf("piece should move right after the bounce, VX = %v", p.VX)
	}
}

func TestHitCeiling(t *testing.T) {
	p := &resolver.Piece{Y: 66}
	if !resolver.HitCeiling(p, 48, radius) {
		t.Error("expected ceiling hit at exact contact")
	}
	p.Y = 66.01
	if resolver.HitCeiling(p, 48, radius) {
		t.Error("unexpected ceiling hit below contact")
	}
}

func TestCheckCollisionFirstRowMajor(t *testing.T) {
	l := newLattice()
	b := lattice.NewBoard(6, 12)
	b.PlaceAt(0, 5, lattice.Piece{Color: red})
	b.PlaceAt(1, 5, lattice.Piece{Color: red})

	// Closer to (1,5) but within range of (0,5) too.
	x0, y0 := l.CellCenter(0, 5, 0)
	x1, y1 := l.CellCenter(1, 5, 0)
	p := &resolver.Piece{X: (x0 + x1*3) / 4, Y: (y0 + y1*3) / 4, Radius: radius}

	c := resolver.CheckCollision(p, l, b, 0, radius, resolver.DefaultEpsilon)
	if !c.Hit {
		t.Fatal("expected a hit")
	}
	if c.Row != 0 || c.Col != 5 {
		t.Errorf("hit %d,%d, expected the first row-major match 0,5", c.Row, c.Col)
	}
	if c.X != x0 || c.Y != y0 {
		t.Errorf("contact center (%v,%v), expected (%v,%v)", c.X, c.Y, x0, y0)
	}
}

func TestCheckCollisionMiss(t *testing.T) {
	l := newLattice()
	b := lattice.NewBoard(6, 12)
	b.PlaceAt(0, 5, lattice.Piece{Color: red})

	x, y := l.CellCenter(0, 5, 0)
	p := &resolver.Piece{X: x, Y: y + 2*radius - 0.4, Radius: radius}
	if c := resolver.CheckCollision(p, l, b, 0, radius, resolver.DefaultEpsilon); c.Hit {
		t.Errorf("expected miss inside the epsilon band, got %+v", c)
	}
	p.Y = y + 2*radius - 0.6
	if c := resolver.CheckCollision(p, l, b, 0, radius, resolver.DefaultEpsilon); !c.Hit {
		t.Error("expected hit just inside the contact distance")
	}
}

func TestChooseSnapCellEquidistantTie(t *testing.T) {
	l := newLattice()
	b := lattice.NewBoard(6, 12)
	b.PlaceAt(0, 5, lattice.Piece{Color: red})

	// (1,4) and (1,5) are mirror images around the vertical through (0,5).
	x, y := l.CellCenter(0, 5, 0)
	cell, ok := resolver.ChooseSnapCell(l, b, 0, x, y+2*radius, lattice.Cell{Row: 0, Col: 5})
	if !ok {
		t.Fatal("expected a snap cell")
	}
	if cell != (lattice.Cell{Row: 1, Col: 4}) {
		t.Errorf("snap = %v, expected 1,4 (first enumerated of the tie)", cell)
	}

	// Same call, same answer.
	again, _ := resolver.ChooseSnapCell(l, b, 0, x, y+2*radius, lattice.Cell{Row: 0, Col: 5})
	if again != cell {
		t.Errorf("non-deterministic tie break: %v then %v", cell, again)
	}
}

func TestChooseSnapCellFallsBackToNearby(t *testing.T) {
	l := newLattice()
	b := lattice.NewBoard(6, 12)
	around := lattice.Cell{Row: 2, Col: 5}
	b.PlaceAt(around.Row, around.Col, lattice.Piece{Color: red})
	for _, nb := range lattice.Neighbors(around.Row, around.Col) {
		b.PlaceAt(nb.Row, nb.Col, lattice.Piece{Color: red})
	}

	x, y := l.CellCenter(3, 5, 0)
	cell, ok := resolver.ChooseSnapCell(l, b, 0, x, y+radius, around)
	if !ok {
		t.Fatal("expected a fallback snap cell")
	}
	if b.Occupied(cell.Row, cell.Col) {
		t.Errorf("fallback returned occupied cell %v", cell)
	}
}

func TestChooseSnapCellNone(t *testing.T) {
	l := newLattice()
	b := lattice.NewBoard(3, 12)
	for row := 0; row < 3; row++ {
		for col := 0; col < 12; col++ {
			b.PlaceAt(row, col, lattice.Piece{Color: red})
		}
	}
	x, y := l.CellCenter(1, 6, 0)
	if _, ok := resolver.ChooseSnapCell(l, b, 0, x, y, lattice.Cell{Row: 1, Col: 6}); ok {
		t.Error("expected no snap cell on a full board")
	}
}

func TestChooseSnapCellNeverOccupied(t *testing.T) {
	l := newLattice()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		b := lattice.NewBoard(10, 12)
		for row := 0; row < 10; row++ {
			for col := 0; col < 12; col++ {
				if rng.Float64() < 0.6 {
					b.PlaceAt(row, col, lattice.Piece{Color: red})
				}
			}
		}
		around := lattice.Cell{Row: rng.Intn(10), Col: rng.Intn(12)}
		b.PlaceAt(around.Row, around.Col, lattice.Piece{Color: red})

		cx, cy := l.CellCenter(around.Row, around.Col, 0)
		angle := rng.Float64() * 2 * math.Pi
		ix := cx + math.Cos(angle)*2*radius
		iy := cy + math.Sin(angle)*2*radius

		cell, ok := resolver.ChooseSnapCell(l, b, 0, ix, iy, around)
		if !ok {
			continue
		}
		if !b.InBounds(cell.Row, cell.Col) {
			t.Fatalf("trial %d: snap cell %v out of bounds", trial, cell)
		}
		if b.Occupied(cell.Row, cell.Col) {
			t.Fatalf("trial %d: snap cell %v is occupied", trial, cell)
		}
	}
}

func TestChooseCeilingCell(t *testing.T) {
	l := newLattice()

	t.Run("nearest free row zero cell", func(t *testing.T) {
		b := lattice.NewBoard(4, 12)
		x, y := l.CellCenter(0, 3, 0)
		cell, ok := resolver.ChooseCeilingCell(l, b, 0, x+4, y+radius)
		if !ok || cell != (lattice.Cell{Row: 0, Col: 3}) {
			t.Errorf("got %v %v, expected 0,3", cell, ok)
		}
	})

	t.Run("skips occupied", func(t *testing.T) {
		b := lattice.NewBoard(4, 12)
		b.PlaceAt(0, 5, lattice.Piece{Color: red})
		x, y := l.CellCenter(0, 5, 0)
		cell, ok := resolver.ChooseCeilingCell(l, b, 0, x, y)
		if !ok {
			t.Fatal("expected a cell")
		}
		if cell != (lattice.Cell{Row: 0, Col: 4}) {
			t.Errorf("got %v, expected 0,4", cell)
		}
	})

	t.Run("full row", func(t *testing.T) {
		b := lattice.NewBoard(4, 12)
		for col := 0; col < 12; col++ {
			b.PlaceAt(0, col, lattice.Piece{Color: red})
		}
		x, y := l.CellCenter(0, 5, 0)
		if _, ok := resolver.ChooseCeilingCell(l, b, 0, x, y); ok {
			t.Error("expected no cell when row 0 is full")
		}
	})
}

func TestResolverMethods(t *testing.T) {
	l := newLattice()
	r := resolver.New(l, 0)
	if r.Epsilon != resolver.DefaultEpsilon {
		t.Errorf("Epsilon = %v, expected default", r.Epsilon)
	}

	drop := math.Sqrt(3) * radius
	if got := r.CeilingY(drop); got != 48+drop {
		t.Errorf("CeilingY = %v, expected %v", got, 48+drop)
	}

	b := lattice.NewBoard(6, 12)
	b.PlaceAt(0, 6, lattice.Piece{Color: red})
	x, y := l.CellCenter(0, 6, drop)
	p := &resolver.Piece{X: x - 10, Y: y + 2*radius - 10, Radius: radius, Color: red, Variant: 1}

	if r.HitCeiling(p, drop) {
		t.Error("unexpected ceiling hit")
	}
	c := r.Collide(p, b, drop)
	if !c.Hit || c.Cell() != (lattice.Cell{Row: 0, Col: 6}) {
		t.Fatalf("Collide = %+v", c)
	}
	cell, ok := r.Snap(p, b, drop, c.Cell())
	if !ok || b.Occupied(cell.Row, cell.Col) {
		t.Fatalf("Snap = %v %v", cell, ok)
	}
	if err := b.Place(cell.Row, cell.Col, p.Placed()); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if got, _ := b.At(cell.Row, cell.Col); got.Variant != 1 {
		t.Errorf("placed variant %d, expected 1", got.Variant)
	}
}
