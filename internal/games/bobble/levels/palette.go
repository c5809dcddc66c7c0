package levels

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
)

// DefaultPalette is the palette used by levels that do not name one.
const DefaultPalette = "default"

// DefaultGlyph draws pieces of a color that declares no variants.
const DefaultGlyph = "●"

// PaletteColor binds a level token to a color key and its cosmetic variants.
type PaletteColor struct {
	Token    string
	Key      lattice.ColorKey
	Variants []string // One glyph per variant
}

// Palette is an ordered set of colors available to a level.
type Palette struct {
	Name   string
	Colors []PaletteColor
}

type yamlPalette struct {
	Name   string `yaml:"name"`
	Colors []struct {
		Token    string   `yaml:"token"`
		Key      string   `yaml:"key"`
		Variants []string `yaml:"variants"`
	} `yaml:"colors"`
}

// CanonicalKey parses a hex color ("#F00", "#ff0000") and returns its
// lowercase "#rrggbb" form.
func CanonicalKey(s string) (lattice.ColorKey, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return lattice.ColorKey(c.Hex()), nil
}

// ParsePalette parses a palette file. The name defaults to fallbackName
// when the file does not set one.
func ParsePalette(data []byte, fallbackName string) (Palette, error) {
	var yp yamlPalette
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return Palette{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	p := Palette{Name: yp.Name}
	if p.Name == "" {
		p.Name = fallbackName
	}
	if len(yp.Colors) == 0 {
		return Palette{}, fmt.Errorf("%w: %s", ErrEmptyPalette, p.Name)
	}

	tokens := make(map[string]bool)
	keys := make(map[lattice.ColorKey]bool)
	for _, yc := range yp.Colors {
		if yc.Token == "" || IsEmptyToken(yc.Token) || strings.ContainsAny(yc.Token, " \t") {
			return Palette{}, fmt.Errorf("%w: %q is reserved or blank", ErrBadToken, yc.Token)
		}
		if tokens[yc.Token] {
			return Palette{}, fmt.Errorf("%w: token %q", ErrDuplicate, yc.Token)
		}
		key, err := CanonicalKey(yc.Key)
		if err != nil {
			return Palette{}, err
		}
		if keys[key] {
			return Palette{}, fmt.Errorf("%w: color %s", ErrDuplicate, key)
		}
		tokens[yc.Token] = true
		keys[key] = true

		variants := yc.Variants
		if len(variants) == 0 {
			variants = []string{DefaultGlyph}
		}
		p.Colors = append(p.Colors, PaletteColor{Token: yc.Token, Key: key, Variants: variants})
	}
	return p, nil
}

// Lookup returns the color bound to a level token.
func (p Palette) Lookup(token string) (PaletteColor, bool) {
	for _, c := range p.Colors {
		if c.Token == token {
			return c, true
		}
	}
	return PaletteColor{}, false
}

// ByKey returns the palette entry for a color key.
func (p Palette) ByKey(key lattice.ColorKey) (PaletteColor, bool) {
	for _, c := range p.Colors {
		if c.Key == key {
			return c, true
		}
	}
	return PaletteColor{}, false
}

// Keys returns the color keys in palette order.
func (p Palette) Keys() []lattice.ColorKey {
	keys := make([]lattice.ColorKey, len(p.Colors))
	for i, c := range p.Colors {
		keys[i] = c.Key
	}
	return keys
}

// Avatars returns every (color, variant) pair in palette order.
func (p Palette) Avatars() []lattice.Piece {
	var out []lattice.Piece
	for _, c := range p.Colors {
		for v := range c.Variants {
			out = append(out, lattice.Piece{Color: c.Key, Variant: v})
		}
	}
	return out
}

// VariantCount returns how many variants a color has; 0 if unknown.
func (p Palette) VariantCount(key lattice.ColorKey) int {
	c, ok := p.ByKey(key)
	if !ok {
		return 0
	}
	return len(c.Variants)
}

// Glyph returns the glyph for a piece, falling back to DefaultGlyph.
func (p Palette) Glyph(piece lattice.Piece) string {
	c, ok := p.ByKey(piece.Color)
	if !ok || piece.Variant < 0 || piece.Variant >= len(c.Variants) {
		return DefaultGlyph
	}
	return c.Variants[piece.Variant]
}
