package bobble

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-bobble/internal/core"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/resolver"
)

// ErrSnapshotMismatch is returned when a snapshot does not fit the game's board.
var ErrSnapshotMismatch = errors.New("bobble: snapshot does not match board size")

// SnapshotCell is one occupied cell.
type SnapshotCell struct {
	Row     int    `msgpack:"r"`
	Col     int    `msgpack:"c"`
	Color   string `msgpack:"k"`
	Variant int    `msgpack:"v"`
}

// SnapshotPiece is the projectile in flight.
type SnapshotPiece struct {
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	VX      float64 `msgpack:"vx"`
	VY      float64 `msgpack:"vy"`
	Color   string  `msgpack:"k"`
	Variant int     `msgpack:"v"`
}

// Snapshot contains the game state needed to compare or restore a session.
// Cells are listed in row-major order so equal boards encode identically.
type Snapshot struct {
	Tick           int            `msgpack:"tick"`
	Level          string         `msgpack:"level"`
	LevelIndex     int            `msgpack:"level_index"`
	Phase          string         `msgpack:"phase"`
	PausedFrom     string         `msgpack:"paused_from,omitempty"`
	Score          int            `msgpack:"score"`
	ShotsUsed      int            `msgpack:"shots"`
	ShotsSinceDrop int            `msgpack:"since_drop"`
	DropOffsetY    float64        `msgpack:"drop"`
	AimX           float64        `msgpack:"aim_x"`
	AimY           float64        `msgpack:"aim_y"`
	Rows           int            `msgpack:"rows"`
	Cols           int            `msgpack:"cols"`
	Cells          []SnapshotCell `msgpack:"cells"`
	Moving         *SnapshotPiece `msgpack:"moving,omitempty"`
	Travel         float64        `msgpack:"travel"`
	SnapMisses     int            `msgpack:"snap_misses"`
	Next           SnapshotCell   `msgpack:"next"`
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:           g.tick,
		Level:          g.level.ID,
		LevelIndex:     g.levelIndex,
		Phase:          string(g.phase),
		PausedFrom:     string(g.pausedFrom),
		Score:          g.score,
		ShotsUsed:      g.shotsUsed,
		ShotsSinceDrop: g.shotsSinceDrop,
		DropOffsetY:    g.dropOffsetY,
		AimX:           g.aimX,
		AimY:           g.aimY,
		Rows:           g.board.Rows(),
		Cols:           g.board.Cols(),
		Travel:         g.travel,
		SnapMisses:     g.snapMisses,
		Next:           SnapshotCell{Row: -1, Col: -1, Color: string(g.next.Color), Variant: g.next.Variant},
	}

	for row := 0; row < g.board.Rows(); row++ {
		for col := 0; col < g.board.Cols(); col++ {
			if p, ok := g.board.At(row, col); ok {
				snap.Cells = append(snap.Cells, SnapshotCell{Row: row, Col: col, Color: string(p.Color), Variant: p.Variant})
			}
		}
	}

	if m := g.moving; m != nil {
		snap.Moving = &SnapshotPiece{X: m.X, Y: m.Y, VX: m.VX, VY: m.VY, Color: string(m.Color), Variant: m.Variant}
	}
	return snap
}

// ApplySnapshot restores game state from a snapshot. The board size must
// match the current configuration.
func (g *Game) ApplySnapshot(snap Snapshot) error {
	if snap.Rows != g.board.Rows() || snap.Cols != g.board.Cols() {
		return fmt.Errorf("%w: snapshot %dx%d, board %dx%d", ErrSnapshotMismatch, snap.Rows, snap.Cols, g.board.Rows(), g.board.Cols())
	}

	board := lattice.NewBoard(snap.Rows, snap.Cols)
	for _, c := range snap.Cells {
		if err := board.Place(c.Row, c.Col, lattice.Piece{Color: lattice.ColorKey(c.Color), Variant: c.Variant}); err != nil {
			return fmt.Errorf("bobble: apply snapshot: %w", err)
		}
	}

	g.board = board
	g.tick = snap.Tick
	g.phase = core.Phase(snap.Phase)
	g.pausedFrom = core.Phase(snap.PausedFrom)
	g.score = snap.Score
	g.shotsUsed = snap.ShotsUsed
	g.shotsSinceDrop = snap.ShotsSinceDrop
	g.dropOffsetY = snap.DropOffsetY
	g.aimX, g.aimY = snap.AimX, snap.AimY
	g.next = lattice.Piece{Color: lattice.ColorKey(snap.Next.Color), Variant: snap.Next.Variant}

	g.travel = snap.Travel
	g.snapMisses = snap.SnapMisses
	g.moving = nil
	if m := snap.Moving; m != nil {
		g.moving = &resolver.Piece{
			X:       m.X,
			Y:       m.Y,
			VX:      m.VX,
			VY:      m.VY,
			Radius:  g.lat.Radius(),
			Color:   lattice.ColorKey(m.Color),
			Variant: m.Variant,
		}
	}
	return nil
}

// Encode serializes the snapshot with msgpack.
func (snap Snapshot) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("bobble: encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot produced by Encode.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("bobble: decode snapshot: %w", err)
	}
	return snap, nil
}

// Hash returns the FNV-1a hash of the encoded snapshot for determinism
// testing. Equal states hash equal; a snapshot that cannot be encoded has
// no hash.
func (snap Snapshot) Hash() (uint64, error) {
	data, err := snap.Encode()
	if err != nil {
		return 0, err
	}
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64(), nil
}
