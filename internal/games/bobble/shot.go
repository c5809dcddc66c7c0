package bobble

import (
	"github.com/vovakirdan/tui-bobble/internal/core"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/lattice"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/resolver"
)

// fire launches the loaded piece toward the aim point.
func (g *Game) fire() {
	if g.next.Color == "" {
		return
	}
	speed := g.difficulty.Speed(g.cfg.Play.ShotSpeed, g.score, g.tick)
	vx, vy := LaunchVelocity(g.shooterX, g.shooterY, g.aimX, g.aimY, speed, g.cfg.Play.MinAimAngleDeg)

	g.moving = &resolver.Piece{
		X:       g.shooterX,
		Y:       g.shooterY,
		VX:      vx,
		VY:      vy,
		Radius:  g.lat.Radius(),
		Color:   g.next.Color,
		Variant: g.next.Variant,
	}
	g.travel = 0
	g.snapMisses = 0
	g.phase = core.PhaseFiring
	g.emit(core.EventShot)
	g.sound.Play(core.SoundShot, g.next.Variant)

	g.next = g.nextPiece()
}

// stepShot moves the projectile one tick and resolves any contact.
func (g *Game) stepShot() {
	p := g.moving
	if p == nil {
		g.phase = core.PhaseReady
		return
	}
	dt := 1.0 / float64(g.runtime.TickRate)

	p.Advance(dt)
	g.travel += p.Speed() * dt
	resolver.ReflectIfNeeded(p, g.bounds)

	// Ceiling contact snaps into row 0
	if g.res.HitCeiling(p, g.dropOffsetY) {
		if cell, ok := g.res.SnapCeiling(p, g.board, g.dropOffsetY); ok {
			g.settle(cell)
			return
		}
		p.Y++
		g.missSnap("ceiling")
		return
	}

	// Contact with placed pieces
	if c := g.res.Collide(p, g.board, g.dropOffsetY); c.Hit {
		if cell, ok := g.res.Snap(p, g.board, g.dropOffsetY, c.Cell()); ok {
			g.settle(cell)
			return
		}
		p.StepBack(dt)
		g.missSnap("contact")
		return
	}

	if limit := g.cfg.Play.MaxTravel * g.cfg.Geometry.FieldHeight; limit > 0 && g.travel > limit {
		g.logger.Warn("piece travelled too far, discarding", "x", p.X, "y", p.Y, "travel", g.travel)
		g.discard()
	}
}

// missSnap counts a contact that found no free cell.
func (g *Game) missSnap(where string) {
	g.snapMisses++
	if g.cfg.Play.MaxSnapRetries > 0 && g.snapMisses > g.cfg.Play.MaxSnapRetries {
		p := g.moving
		g.logger.Warn("no free cell for piece, discarding", "contact", where, "x", p.X, "y", p.Y, "retries", g.snapMisses)
		g.discard()
	}
}

// discard drops the projectile without touching the board. It still counts
// as a shot.
func (g *Game) discard() {
	g.moving = nil
	g.emit(core.EventDiscard)
	g.finishShot()
}

// settle places the projectile and resolves matches around it.
func (g *Game) settle(cell lattice.Cell) {
	piece := g.moving.Placed()
	if err := g.board.Place(cell.Row, cell.Col, piece); err != nil {
		g.logger.Warn("cannot place piece", "cell", cell, "err", err)
		g.discard()
		return
	}
	g.moving = nil
	g.emit(core.EventSnap)
	g.sound.Play(core.SoundHit, piece.Variant)

	g.resolveMatches(cell)
	g.finishShot()
}

// resolveMatches removes the cluster at cell if it is large enough, then
// every piece no longer hanging from the ceiling.
func (g *Game) resolveMatches(cell lattice.Cell) {
	cluster := g.board.FindCluster(cell.Row, cell.Col)
	if len(cluster) < g.cfg.Play.ClearMatch {
		return
	}

	cleared := g.board.Remove(cluster)
	for _, p := range cleared {
		g.sound.Play(core.SoundClear, p.Variant)
	}
	g.addScore(len(cleared) * PointsPerClear)
	g.emit(core.EventClear)

	floating := g.board.Floating(g.board.FindCeilingConnected())
	if len(floating) == 0 {
		return
	}
	fell := g.board.Remove(floating)
	for _, p := range fell {
		g.sound.Play(core.SoundFall, p.Variant)
	}
	g.addScore(len(fell) * PointsPerFall)
	g.emit(core.EventFall)

	g.logger.Debug("matches resolved", "cleared", len(cleared), "fell", len(fell), "score", g.score)
}

// finishShot counts the shot and lowers the ceiling when due.
func (g *Game) finishShot() {
	g.shotsUsed++
	g.shotsSinceDrop++
	if g.shotsSinceDrop >= g.dropInterval() {
		g.shotsSinceDrop = 0
		g.dropOffsetY += g.lat.RowPitch()
		g.emit(core.EventDrop)
		g.logger.Debug("ceiling dropped", "offset", g.dropOffsetY, "shots", g.shotsUsed)
	}
	g.phase = core.PhaseReady

	if !g.board.IsCleared() && !g.colorOnBoard(g.next.Color) {
		g.next = g.nextPiece()
	}
}

// dropInterval returns the current ceiling cadence in shots.
func (g *Game) dropInterval() int {
	return g.difficulty.DropInterval(g.cfg.Play.CeilingDropPerShots, g.score, g.tick)
}

func (g *Game) addScore(n int) {
	g.score += n
	if g.score > g.best {
		g.best = g.score
	}
}
