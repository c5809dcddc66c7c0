package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bobble/internal/core"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/levels"
)

// fakeGame records what the platform feeds it.
type fakeGame struct {
	resets int
	steps  []core.InputFrame
	events []core.Event
}

func (g *fakeGame) ID() string               { return "fake" }
func (g *fakeGame) Title() string            { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig) { g.resets++ }
func (g *fakeGame) State() core.GameState    { return core.GameState{Phase: core.PhaseReady} }
func (g *fakeGame) Render(dst *core.Screen)  { dst.Clear(); dst.DrawText(0, 0, "board") }
func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.steps = append(g.steps, in.Clone())
	return core.StepResult{State: g.State(), Events: g.events}
}

type fakeMixer struct{ v int }

func (m *fakeMixer) Volume() int     { return m.v }
func (m *fakeMixer) SetVolume(v int) { m.v = v }

type fakeStore struct {
	saved []int
	err   error
}

func (s *fakeStore) SetVolume(v int) (int, error) {
	s.saved = append(s.saved, v)
	return v, s.err
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(g *fakeGame, mixer Mixer, store VolumeStore) Model {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 40, TickRate: 60, Seed: 1}
	return NewModel(g, mixer, store, cfg)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"a", runes("a"), core.ActionLeft, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"d", runes("d"), core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionFire, false},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionFire, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"p", runes("p"), core.ActionPause, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEscape}, core.ActionPause, false},
		{"r", runes("r"), core.ActionRestart, false},
		{"b", runes("b"), core.ActionBack, false},
		{"plus", runes("+"), core.ActionVolumeUp, false},
		{"equals", runes("="), core.ActionVolumeUp, false},
		{"minus", runes("-"), core.ActionVolumeDown, false},
		{"q", runes("q"), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runes("z"), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapMouseToFrame(t *testing.T) {
	frame := core.NewInputFrame()
	if !MapMouseToFrame(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionMotion}, &frame) {
		t.Fatal("motion should be mapped")
	}
	if x, y, ok := frame.Pointer(); !ok || x != 10 || y != 5 {
		t.Errorf("Pointer() = %d, %d, %v", x, y, ok)
	}
	if frame.Has(core.ActionFire) {
		t.Error("motion must not fire")
	}

	frame.Clear()
	MapMouseToFrame(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, &frame)
	if !frame.Has(core.ActionFire) {
		t.Error("left click should fire")
	}

	frame.Clear()
	if MapMouseToFrame(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, &frame) {
		t.Error("right click should be ignored")
	}
	if _, _, ok := frame.Pointer(); ok {
		t.Error("ignored click must not move the pointer")
	}
}

func TestTickForwardsAndClearsInput(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, nil, nil)

	m, _ = update(t, m, runes("a"))
	m, _ = update(t, m, tea.MouseMsg{X: 7, Y: 8, Action: tea.MouseActionMotion})
	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	m, _ = update(t, m, TickMsg{})

	if len(g.steps) != 2 {
		t.Fatalf("steps = %d, expected 2", len(g.steps))
	}
	if !g.steps[0].Has(core.ActionLeft) {
		t.Error("first step should carry the aim key")
	}
	if x, y, ok := g.steps[0].Pointer(); !ok || x != 7 || y != 8 {
		t.Errorf("first step pointer = %d, %d, %v", x, y, ok)
	}
	if g.steps[1].Has(core.ActionLeft) {
		t.Error("input must be cleared after a tick")
	}
	if _, _, ok := g.steps[1].Pointer(); ok {
		t.Error("pointer must be cleared after a tick")
	}
}

func TestVolumeKeys(t *testing.T) {
	mixer := &fakeMixer{v: 90}
	store := &fakeStore{}
	m := newTestModel(&fakeGame{}, mixer, store)

	m, _ = update(t, m, runes("+"))
	m, _ = update(t, m, runes("+"))
	if mixer.v != 100 {
		t.Errorf("mixer volume = %d, expected 100", mixer.v)
	}
	if len(store.saved) != 1 {
		t.Errorf("saved %v, expected one save before the clamp", store.saved)
	}

	for range 12 {
		m, _ = update(t, m, runes("-"))
	}
	if mixer.v != 0 {
		t.Errorf("mixer volume = %d, expected 0", mixer.v)
	}
	if !strings.Contains(m.footer(), "Muted") {
		t.Errorf("footer %q should show muted", m.footer())
	}
}

func TestVolumeSaveErrorKeepsPlaying(t *testing.T) {
	mixer := &fakeMixer{v: 50}
	store := &fakeStore{err: errors.New("disk full")}
	m := newTestModel(&fakeGame{}, mixer, store)

	m, cmd := update(t, m, runes("-"))
	if cmd != nil {
		t.Error("volume change should not quit")
	}
	if mixer.v != 40 || m.volume != 40 {
		t.Errorf("volume = %d/%d, expected 40", mixer.v, m.volume)
	}
}

func TestBackAndQuit(t *testing.T) {
	m := newTestModel(&fakeGame{}, nil, nil)
	back, cmd := update(t, m, runes("b"))
	if cmd == nil || !back.WantsBack() {
		t.Error("back key should end the session and request the picker")
	}
	if back.View() != "" {
		t.Error("view should be empty after leaving")
	}

	quit, cmd := update(t, m, runes("q"))
	if cmd == nil || quit.WantsBack() {
		t.Error("quit key should end the session without going back")
	}
}

func TestResizeKeepsSession(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, nil, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if g.resets != 0 {
		t.Error("resize must not reset the game")
	}
	if m.screen.Width() != 100 || m.screen.Height() != 30-footerHeight {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}
}

func TestViewIncludesFooter(t *testing.T) {
	m := newTestModel(&fakeGame{}, &fakeMixer{v: 70}, nil)
	out := m.View()
	if !strings.Contains(out, "board") {
		t.Error("view should contain the game screen")
	}
	if !strings.Contains(out, "Vol 70%") {
		t.Error("view should show the volume")
	}
}

func TestRenderScreenCachesStyles(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawTextColored(0, 0, "ab", core.Color("#e74c3c"))
	s.DrawText(2, 0, "c")
	s.DrawTextColored(0, 1, "d", core.ColorGray)

	out := RenderScreen(s)
	for _, want := range []string{"ab", "c", "d"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if _, ok := colorStyles["#e74c3c"]; !ok {
		t.Error("hex color style should be cached")
	}
}

func pickerLevels() []levels.Level {
	return []levels.Level{
		{ID: "01", Name: "One", Rows: [][]string{{"R", "G"}}},
		{ID: "02", Name: "Two", Rows: [][]string{{"R", "."}, {"B"}}},
	}
}

func pick(t *testing.T, m LevelPickerModel, msgs ...tea.Msg) LevelPickerModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(LevelPickerModel)
	}
	return m
}

func TestLevelPicker(t *testing.T) {
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	down := tea.KeyMsg{Type: tea.KeyDown}

	t.Run("select current", func(t *testing.T) {
		m := pick(t, NewLevelPickerModel(pickerLevels(), "02", 80, 24), enter)
		if sel := m.Selected(); sel == nil || sel.Random || sel.LevelID != "02" {
			t.Errorf("Selected() = %+v", sel)
		}
	})

	t.Run("random row", func(t *testing.T) {
		m := pick(t, NewLevelPickerModel(pickerLevels(), "", 80, 24), down, down, enter)
		if sel := m.Selected(); sel == nil || !sel.Random {
			t.Errorf("Selected() = %+v", sel)
		}
	})

	t.Run("random key", func(t *testing.T) {
		m := pick(t, NewLevelPickerModel(pickerLevels(), "", 80, 24), runes("x"))
		if sel := m.Selected(); sel == nil || !sel.Random {
			t.Errorf("Selected() = %+v", sel)
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := pick(t, NewLevelPickerModel(pickerLevels(), "", 80, 24), runes("q"))
		if m.Selected() != nil {
			t.Error("quit should leave no selection")
		}
	})

	t.Run("rows", func(t *testing.T) {
		m := NewLevelPickerModel(pickerLevels(), "", 80, 24)
		rows := m.rows()
		if len(rows) != 3 || rows[1][4] != "2" || rows[2][1] != RandomRowID {
			t.Errorf("rows = %v", rows)
		}
	})
}
