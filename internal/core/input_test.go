package core

import "testing"

func TestInputFrameActions(t *testing.T) {
	f := NewInputFrame()
	if f.Has(ActionFire) {
		t.Error("new frame should be empty")
	}
	f.Set(ActionFire)
	f.Set(ActionLeft)
	if !f.Has(ActionFire) || !f.Has(ActionLeft) {
		t.Error("expected Fire and Left")
	}

	clone := f.Clone()
	f.Clear()
	if f.Has(ActionFire) {
		t.Error("Clear should remove actions")
	}
	if !clone.Has(ActionFire) {
		t.Error("clone should keep actions after original is cleared")
	}

	var zero InputFrame
	if zero.Has(ActionFire) {
		t.Error("zero frame should report no actions")
	}
	zero.Set(ActionPause)
	if !zero.Has(ActionPause) {
		t.Error("Set on zero frame should allocate")
	}
}

func TestInputFramePointer(t *testing.T) {
	f := NewInputFrame()
	if _, _, ok := f.Pointer(); ok {
		t.Error("new frame should have no pointer")
	}
	f.SetPointer(12, 7)
	x, y, ok := f.Pointer()
	if !ok || x != 12 || y != 7 {
		t.Errorf("Pointer() = (%d, %d, %v)", x, y, ok)
	}
	if cx, cy, cok := f.Clone().Pointer(); !cok || cx != 12 || cy != 7 {
		t.Error("Clone should copy the pointer")
	}
	f.Clear()
	if _, _, ok := f.Pointer(); ok {
		t.Error("Clear should drop the pointer")
	}
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionNone:       "None",
		ActionFire:       "Fire",
		ActionVolumeDown: "VolumeDown",
		Action(99):       "Unknown",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("Action(%d).String() = %q, expected %q", a, got, want)
		}
	}
}

func TestStepResultHas(t *testing.T) {
	r := StepResult{Events: []Event{EventShot, EventClear}}
	if !r.Has(EventClear) || r.Has(EventFall) {
		t.Errorf("Has mismatch for %v", r.Events)
	}
}
