package levels

import (
	"math/rand"

	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
)

// RandomFill fills the top rows of an empty board. Each cell is left empty
// with probability emptyRate, otherwise it gets a (color, variant) pair drawn
// uniformly from the palette. Rows beyond the board are ignored. Returns the
// number of pieces placed.
func RandomFill(b *lattice.Board, rng *rand.Rand, rows int, emptyRate float64, p Palette) int {
	avatars := p.Avatars()
	if len(avatars) == 0 {
		return 0
	}
	if rows > b.Rows() {
		rows = b.Rows()
	}

	placed := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < b.Cols(); c++ {
			if rng.Float64() < emptyRate {
				continue
			}
			if b.PlaceAt(r, c, avatars[rng.Intn(len(avatars))]) {
				placed++
			}
		}
	}
	return placed
}

// RandomLevel describes a generated layout so it can be listed beside
// file-based levels.
func RandomLevel(p Palette) Level {
	return Level{
		ID:          "random",
		Name:        "Random",
		PaletteName: p.Name,
		Palette:     p,
		Bundled:     true,
	}
}
