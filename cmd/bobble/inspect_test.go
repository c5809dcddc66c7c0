package main

import (
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bobble/internal/core"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	bobble.SetConfigPath("")
	bobble.SetLevelsDir("")
	bobble.SetStartLevel("")
	bobble.SetLogger(log.New(io.Discard))
}

func newInspected(t *testing.T, seed int64) *bobble.Game {
	t.Helper()
	g := bobble.New()
	cfg := core.DefaultConfig()
	cfg.Seed = seed
	g.Reset(cfg)
	return g
}

func hashOf(t *testing.T, g *bobble.Game) uint64 {
	t.Helper()
	h, err := g.Snapshot().Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	return h
}

func TestSimulateIsDeterministic(t *testing.T) {
	isolate(t)

	a := newInspected(t, 9)
	b := newInspected(t, 9)
	na := simulate(a, 15, rand.New(rand.NewSource(9)), 60)
	nb := simulate(b, 15, rand.New(rand.NewSource(9)), 60)

	if na != nb || na == 0 {
		t.Fatalf("fired %d and %d shots", na, nb)
	}
	if hashOf(t, a) != hashOf(t, b) {
		t.Error("same seed should reach the same state")
	}
	if a.State().Phase == core.PhaseFiring {
		t.Error("simulate should wait for the last shot to land")
	}
}

func TestSimulateZeroShots(t *testing.T) {
	isolate(t)
	g := newInspected(t, 3)
	before := hashOf(t, g)
	if n := simulate(g, 0, rand.New(rand.NewSource(3)), 60); n != 0 {
		t.Errorf("simulate(0) fired %d shots", n)
	}
	if hashOf(t, g) != before {
		t.Error("state should be untouched")
	}
}

func TestFormatBoard(t *testing.T) {
	isolate(t)
	g := newInspected(t, 1)
	out := formatBoard(g)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) == 0 {
		t.Fatal("expected board rows")
	}
	if len(lines) > 1 && !strings.HasPrefix(lines[1], " ") {
		t.Errorf("odd rows should be shifted: %q", lines[1])
	}
	if strings.Contains(out, "?") {
		t.Errorf("every piece should map to a palette token:\n%s", out)
	}
	if got := strings.Count(strings.Join(lines, ""), "."); got+g.Board().Count() != len(lines)*g.Board().Cols() {
		t.Errorf("%d empty + %d pieces does not fill %d rows", got, g.Board().Count(), len(lines))
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := expandHome("~/.bobble/bobble.log"); got != filepath.Join(home, ".bobble", "bobble.log") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/tmp/x.log"); got != "/tmp/x.log" {
		t.Errorf("absolute path changed: %q", got)
	}
}
