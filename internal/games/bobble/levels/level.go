// Package levels loads bubble shooter layouts and palettes from YAML and
// builds boards from them. Bundled levels are embedded in the binary; a user
// directory can add levels or replace bundled ones by ID.
package levels

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
)

// Level and palette errors.
var (
	ErrUnknownToken   = errors.New("levels: unknown token")
	ErrTooManyRows    = errors.New("levels: too many rows")
	ErrTooManyColumns = errors.New("levels: too many columns")
	ErrMissingID      = errors.New("levels: missing id")
	ErrUnknownPalette = errors.New("levels: unknown palette")
	ErrEmptyPalette   = errors.New("levels: palette has no colors")
	ErrBadColor       = errors.New("levels: invalid color")
	ErrBadToken       = errors.New("levels: invalid palette token")
	ErrDuplicate      = errors.New("levels: duplicate palette entry")
	ErrNotFound       = errors.New("levels: level not found")
)

// IsEmptyToken reports whether a token marks an empty cell.
func IsEmptyToken(tok string) bool {
	return tok == "." || tok == "-" || tok == "_"
}

// Level is a parsed layout. Rows hold one token per column.
type Level struct {
	ID          string
	Name        string
	PaletteName string
	Rows        [][]string
	Palette     Palette // Resolved by the loader
	FilePath    string
	Bundled     bool
}

type yamlLevel struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Palette string   `yaml:"palette,omitempty"`
	Rows    []string `yaml:"rows"`
}

// ParseLevel parses a level file without resolving its palette.
func ParseLevel(data []byte) (Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if strings.TrimSpace(yl.ID) == "" {
		return Level{}, ErrMissingID
	}

	lvl := Level{
		ID:          strings.TrimSpace(yl.ID),
		Name:        yl.Name,
		PaletteName: yl.Palette,
		Rows:        make([][]string, len(yl.Rows)),
	}
	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}
	if lvl.PaletteName == "" {
		lvl.PaletteName = DefaultPalette
	}
	for i, row := range yl.Rows {
		lvl.Rows[i] = strings.Fields(row)
	}
	return lvl, nil
}

// Validate checks that every non-empty token exists in the palette.
func (l Level) Validate(p Palette) error {
	for r, row := range l.Rows {
		for c, tok := range row {
			if IsEmptyToken(tok) {
				continue
			}
			if _, ok := p.Lookup(tok); !ok {
				return fmt.Errorf("%w: %q at row %d col %d (palette %s)", ErrUnknownToken, tok, r, c, p.Name)
			}
		}
	}
	return nil
}

// Size returns the number of rows and the widest row.
func (l Level) Size() (rows, cols int) {
	for _, row := range l.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return len(l.Rows), cols
}

// Pieces returns the number of non-empty cells.
func (l Level) Pieces() int {
	n := 0
	for _, row := range l.Rows {
		for _, tok := range row {
			if !IsEmptyToken(tok) {
				n++
			}
		}
	}
	return n
}

// Build places the level's pieces on an empty board. Short rows leave the
// remaining cells empty. Variants rotate by position so neighbors of the
// same color look different.
func (l Level) Build(b *lattice.Board) error {
	rows, cols := l.Size()
	if rows > b.Rows() {
		return fmt.Errorf("%w: level %s has %d rows, board has %d", ErrTooManyRows, l.ID, rows, b.Rows())
	}
	if cols > b.Cols() {
		return fmt.Errorf("%w: level %s has %d columns, board has %d", ErrTooManyColumns, l.ID, cols, b.Cols())
	}

	for r, row := range l.Rows {
		for c, tok := range row {
			if IsEmptyToken(tok) {
				continue
			}
			pc, ok := l.Palette.Lookup(tok)
			if !ok {
				return fmt.Errorf("%w: %q at row %d col %d", ErrUnknownToken, tok, r, c)
			}
			piece := lattice.Piece{Color: pc.Key}
			if n := len(pc.Variants); n > 0 {
				piece.Variant = (r + c) % n
			}
			if err := b.Place(r, c, piece); err != nil {
				return fmt.Errorf("levels: build %s: %w", l.ID, err)
			}
		}
	}
	return nil
}
