package bobble

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-bobble/internal/core"
)

func TestLaunchVelocity(t *testing.T) {
	const speed = 640.0

	testCases := []struct {
		name      string
		ax, ay    float64
		wantAngle float64 // Degrees from horizontal, up positive
	}{
		{"straight up", 249, 100, 90},
		{"diagonal left", 149, 524, 135},
		{"flat right clamps", 449, 624, 7},
		{"flat left clamps", 49, 624, 173},
		{"below emitter fires up", 349, 700, 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vx, vy := LaunchVelocity(249, 624, tc.ax, tc.ay, speed, 7)
			if got := math.Hypot(vx, vy); math.Abs(got-speed) > 1e-6 {
				t.Errorf("speed = %v, expected %v", got, speed)
			}
			if vy >= 0 {
				t.Errorf("vy = %v, expected upward", vy)
			}
			angle := math.Atan2(-vy, vx) * 180 / math.Pi
			if math.Abs(angle-tc.wantAngle) > 1e-6 {
				t.Errorf("angle = %v, expected %v", angle, tc.wantAngle)
			}
		})
	}
}

func TestApplyMinAngleKeepsSteepShots(t *testing.T) {
	vx, vy := ApplyMinAngle(100, -300, 7)
	if vx != 100 || vy != -300 {
		t.Errorf("steep velocity changed to (%v, %v)", vx, vy)
	}
}

func TestClampAimPoint(t *testing.T) {
	x, y := ClampAimPoint(-50, 700, 42, 456, 624)
	if x != 42 || y != 612 {
		t.Errorf("ClampAimPoint = (%v, %v), expected (42, 612)", x, y)
	}
	x, y = ClampAimPoint(900, 100, 42, 456, 624)
	if x != 456 || y != 100 {
		t.Errorf("ClampAimPoint = (%v, %v), expected (456, 100)", x, y)
	}
}

func TestRotateAimClamps(t *testing.T) {
	g := newCampaign(t)

	g.Step(input(core.ActionLeft))
	if a := AimAngle(g.shooterX, g.shooterY, g.aimX, g.aimY); math.Abs(a-92) > 1e-6 {
		t.Errorf("after one left step angle = %v, expected 92", a)
	}

	for i := 0; i < 200; i++ {
		g.Step(input(core.ActionRight))
	}
	if a := AimAngle(g.shooterX, g.shooterY, g.aimX, g.aimY); math.Abs(a-7) > 1e-6 {
		t.Errorf("aim should stop at the minimum angle, got %v", a)
	}
}
