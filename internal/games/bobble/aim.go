package bobble

import (
	"math"

	"github.com/vovakirdan/tui-bobble/internal/core"
)

// minLift is the smallest upward component of an aim vector. Aiming at or
// below the emitter still fires upward.
const minLift = 4

// LaunchVelocity returns the velocity of a piece fired from (sx, sy) toward
// (ax, ay) at the given speed. The shot always travels upward and never
// flatter than minAngleDeg from horizontal.
func LaunchVelocity(sx, sy, ax, ay, speed, minAngleDeg float64) (vx, vy float64) {
	dx := ax - sx
	dy := ay - sy
	if dy >= -minLift {
		dy = -minLift
	}
	l := math.Hypot(dx, dy)
	return ApplyMinAngle(dx/l*speed, dy/l*speed, minAngleDeg)
}

// ApplyMinAngle steepens a velocity whose elevation above horizontal is
// below minAngleDeg, keeping its speed and horizontal direction. Both sides
// are clamped.
func ApplyMinAngle(vx, vy, minAngleDeg float64) (float64, float64) {
	elevation := math.Atan2(-vy, math.Abs(vx))
	limit := minAngleDeg * math.Pi / 180
	if elevation >= limit {
		return vx, vy
	}
	speed := math.Hypot(vx, vy)
	if speed == 0 {
		speed = 1
	}
	dir := 1.0
	if vx < 0 {
		dir = -1
	}
	return dir * math.Cos(limit) * speed, -math.Sin(limit) * speed
}

// ClampAimPoint keeps a pointer aim point inside the field columns and at
// least 12 units above the emitter.
func ClampAimPoint(x, y, minX, maxX, shooterY float64) (float64, float64) {
	x = math.Max(minX, math.Min(maxX, x))
	y = math.Min(y, shooterY-12)
	return x, y
}

// AimAngle returns the angle of the aim point from the emitter in degrees,
// measured from the positive x axis with up positive. 90 is straight up.
func AimAngle(sx, sy, ax, ay float64) float64 {
	return math.Atan2(sy-ay, ax-sx) * 180 / math.Pi
}

// updateAim applies pointer and rotation input to the aim point.
func (g *Game) updateAim(in core.InputFrame) {
	if sx, sy, ok := in.Pointer(); ok {
		if wx, wy, inField := g.view.toWorld(sx, sy); inField {
			r := g.lat.Radius()
			g.aimX, g.aimY = ClampAimPoint(wx, wy, g.bounds.Left+r, g.bounds.Right-r, g.shooterY)
		}
	}

	step := g.cfg.Play.AimStepDeg
	if in.Has(core.ActionLeft) {
		g.rotateAim(step)
	}
	if in.Has(core.ActionRight) {
		g.rotateAim(-step)
	}
}

// rotateAim turns the aim point around the emitter, keeping its distance.
// Positive degrees turn left.
func (g *Game) rotateAim(deg float64) {
	lo := g.cfg.Play.MinAimAngleDeg
	a := AimAngle(g.shooterX, g.shooterY, g.aimX, g.aimY) + deg
	a = math.Max(lo, math.Min(180-lo, a))

	d := math.Hypot(g.aimX-g.shooterX, g.aimY-g.shooterY)
	if d < 1 {
		d = defaultAimLift
	}
	rad := a * math.Pi / 180
	g.aimX = g.shooterX + math.Cos(rad)*d
	g.aimY = g.shooterY - math.Sin(rad)*d
}
