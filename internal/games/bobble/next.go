package bobble

import "github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"

// nextPiece picks the piece to load into the emitter. The color is drawn
// from the colors still on the board so every shot can make progress; an
// empty board falls back to the palette. The variant is drawn among the
// color's variants.
func (g *Game) nextPiece() lattice.Piece {
	colors := g.board.ExistingColors()
	if len(colors) == 0 {
		colors = g.palette.Keys()
	}
	if len(colors) == 0 {
		return lattice.Piece{}
	}

	key := colors[g.rng.Intn(len(colors))]
	piece := lattice.Piece{Color: key}
	if n := g.palette.VariantCount(key); n > 1 {
		piece.Variant = g.rng.Intn(n)
	}
	return piece
}

// colorOnBoard reports whether any placed piece has the given color.
func (g *Game) colorOnBoard(key lattice.ColorKey) bool {
	for _, c := range g.board.ExistingColors() {
		if c == key {
			return true
		}
	}
	return false
}

// Next returns the loaded piece.
func (g *Game) Next() lattice.Piece {
	return g.next
}
