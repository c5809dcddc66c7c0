package levels

import (
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testPalette(t *testing.T) Palette {
	t.Helper()
	p, err := ParsePalette([]byte(`
colors:
  - token: R
    key: "#FF0000"
    variants: ["a", "b"]
  - token: G
    key: "#0f0"
`), "test")
	if err != nil {
		t.Fatalf("ParsePalette: %v", err)
	}
	return p
}

func TestParsePaletteCanonicalises(t *testing.T) {
	p := testPalette(t)
	if p.Name != "test" {
		t.Errorf("Name = %q, expected fallback name", p.Name)
	}
	r, ok := p.Lookup("R")
	if !ok || r.Key != "#ff0000" {
		t.Errorf("R = %+v, expected key #ff0000", r)
	}
	g, ok := p.Lookup("G")
	if !ok || g.Key != "#00ff00" {
		t.Errorf("G = %+v, expected key #00ff00", g)
	}
	if len(g.Variants) != 1 || g.Variants[0] != DefaultGlyph {
		t.Errorf("G variants = %v, expected default glyph", g.Variants)
	}
	if got := p.Glyph(lattice.Piece{Color: "#ff0000", Variant: 1}); got != "b" {
		t.Errorf("Glyph = %q, expected b", got)
	}
	if got := p.Glyph(lattice.Piece{Color: "#123456"}); got != DefaultGlyph {
		t.Errorf("Glyph for unknown color = %q", got)
	}
	if n := len(p.Avatars()); n != 3 {
		t.Errorf("Avatars() has %d entries, expected 3", n)
	}
	if p.VariantCount("#ff0000") != 2 || p.VariantCount("#000000") != 0 {
		t.Error("VariantCount mismatch")
	}
}

func TestParsePaletteErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "colors: []\n", ErrEmptyPalette},
		{"bad color", "colors:\n  - {token: R, key: \"red\"}\n", ErrBadColor},
		{"reserved token", "colors:\n  - {token: \".\", key: \"#ff0000\"}\n", ErrBadToken},
		{"duplicate token", "colors:\n  - {token: R, key: \"#ff0000\"}\n  - {token: R, key: \"#00ff00\"}\n", ErrDuplicate},
		{"duplicate key", "colors:\n  - {token: R, key: \"#FF0000\"}\n  - {token: S, key: \"#ff0000\"}\n", ErrDuplicate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePalette([]byte(tc.yaml), "x")
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel([]byte(`
id: "07"
rows:
  - "R R . G"
  - "- _ R"
`))
	if err != nil {
		t.Fatal(err)
	}
	if lvl.Name != "07" || lvl.PaletteName != DefaultPalette {
		t.Errorf("defaults not applied: %+v", lvl)
	}
	rows, cols := lvl.Size()
	if rows != 2 || cols != 4 {
		t.Errorf("Size() = %d x %d, expected 2 x 4", rows, cols)
	}

	if _, err := ParseLevel([]byte("rows: [\"R\"]\n")); !errors.Is(err, ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
}

func TestLevelBuild(t *testing.T) {
	p := testPalette(t)
	lvl, err := ParseLevel([]byte("id: a\nrows:\n  - \"R R . G\"\n  - \"G\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	lvl.Palette = p

	b := lattice.NewBoard(4, 6)
	if err := lvl.Build(b); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.Count() != 4 || lvl.Pieces() != 4 {
		t.Errorf("Count() = %d, Pieces() = %d, expected 4", b.Count(), lvl.Pieces())
	}
	if b.Occupied(0, 2) || b.Occupied(1, 1) {
		t.Error("empty tokens and short rows must leave cells empty")
	}
	p00, _ := b.At(0, 0)
	p01, _ := b.At(0, 1)
	if p00.Color != "#ff0000" || p00.Variant == p01.Variant {
		t.Errorf("unexpected pieces %+v %+v", p00, p01)
	}
}

func TestLevelBuildErrors(t *testing.T) {
	p := testPalette(t)

	tests := []struct {
		name       string
		yaml       string
		rows, cols int
		want       error
	}{
		{"too many rows", "id: a\nrows: [\"R\", \"R\", \"R\"]\n", 2, 6, ErrTooManyRows},
		{"too many columns", "id: a\nrows: [\"R R R R\"]\n", 2, 3, ErrTooManyColumns},
		{"unknown token", "id: a\nrows: [\"R Q\"]\n", 2, 6, ErrUnknownToken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lvl, err := ParseLevel([]byte(tc.yaml))
			if err != nil {
				t.Fatal(err)
			}
			lvl.Palette = p
			if err := lvl.Build(lattice.NewBoard(tc.rows, tc.cols)); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	lvl, _ := ParseLevel([]byte("id: a\nrows: [\"R Z\"]\n"))
	if err := lvl.Validate(p); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("Validate: expected ErrUnknownToken, got %v", err)
	}
}

func TestLoadAllBundled(t *testing.T) {
	l := NewLoader("", quietLogger())

	levels, err := l.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(levels) < 5 {
		t.Fatalf("expected bundled levels, got %d", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i-1].ID >= levels[i].ID {
			t.Errorf("levels not sorted: %s before %s", levels[i-1].ID, levels[i].ID)
		}
	}
	for _, lvl := range levels {
		if !lvl.Bundled {
			t.Errorf("level %s should be marked bundled", lvl.ID)
		}
		b := lattice.NewBoard(18, 12)
		if err := lvl.Build(b); err != nil {
			t.Errorf("bundled level %s does not build: %v", lvl.ID, err)
		}
		if floating := b.Floating(b.FindCeilingConnected()); len(floating) != 0 {
			t.Errorf("bundled level %s starts with floating pieces %v", lvl.ID, floating)
		}
	}

	p, err := l.Palette("")
	if err != nil || p.Name != DefaultPalette {
		t.Errorf("Palette(\"\") = %v, %v", p.Name, err)
	}
	if _, err := l.Palette("nope"); !errors.Is(err, ErrUnknownPalette) {
		t.Errorf("expected ErrUnknownPalette, got %v", err)
	}
}

func TestLoaderUserDirOverrides(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("01_mine.yaml", "id: \"01\"\nname: Mine\nrows: [\"R R R\"]\n")
	write("99_custom.yaml", "id: \"99\"\npalette: mono\nrows: [\"W W\"]\n")
	write("bad.yaml", "id: bad\nrows: [\"R Q\"]\n")
	write("notes.txt", "ignored")
	write("palettes/mono.yaml", "colors:\n  - {token: W, key: \"#ffffff\"}\n")

	l := NewLoader(dir, quietLogger())
	levels, err := l.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	byID := map[string]Level{}
	for _, lvl := range levels {
		byID[lvl.ID] = lvl
	}
	if got := byID["01"]; got.Name != "Mine" || got.Bundled {
		t.Errorf("level 01 not overridden: %+v", got)
	}
	if got, ok := byID["99"]; !ok || got.Palette.Name != "mono" {
		t.Errorf("custom level with custom palette missing: %+v", got)
	}
	if _, ok := byID["bad"]; ok {
		t.Error("invalid level should be skipped")
	}
	if _, ok := byID["02"]; !ok {
		t.Error("bundled levels should still load")
	}

	lvl, err := l.LoadByID("99")
	if err != nil || lvl.ID != "99" {
		t.Errorf("LoadByID(99) = %+v, %v", lvl, err)
	}
	if _, err := l.LoadByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := l.LoadFile(filepath.Join(dir, "bad.yaml")); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("LoadFile(bad) expected ErrUnknownToken, got %v", err)
	}
	ids, err := l.ListIDs()
	if err != nil || len(ids) != len(levels) {
		t.Errorf("ListIDs = %v, %v", ids, err)
	}
}

func TestRandomFill(t *testing.T) {
	p := testPalette(t)

	fill := func(seed int64, rows int, rate float64) *lattice.Board {
		b := lattice.NewBoard(8, 12)
		RandomFill(b, rand.New(rand.NewSource(seed)), rows, rate, p)
		return b
	}

	if !fill(3, 6, 0.1).Equal(fill(3, 6, 0.1)) {
		t.Error("same seed should give the same layout")
	}

	full := fill(1, 6, 0)
	if full.Count() != 6*12 {
		t.Errorf("empty rate 0 should fill every cell, got %d", full.Count())
	}
	for col := 0; col < 12; col++ {
		if full.Occupied(6, col) {
			t.Errorf("row 6 should stay empty")
		}
	}

	if n := fill(1, 6, 1).Count(); n != 0 {
		t.Errorf("empty rate 1 should leave the board empty, got %d", n)
	}

	capped := lattice.NewBoard(3, 12)
	if n := RandomFill(capped, rand.New(rand.NewSource(1)), 10, 0, p); n != 36 {
		t.Errorf("rows beyond the board should be ignored, placed %d", n)
	}

	for _, c := range full.ExistingColors() {
		if _, ok := p.ByKey(c); !ok {
			t.Errorf("color %s not from palette", c)
		}
	}
}
