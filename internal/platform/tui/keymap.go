package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bobble/internal/core"
)

// KeyMap defines the in-game key bindings.
type KeyMap struct {
	AimLeft    key.Binding
	AimRight   key.Binding
	Fire       key.Binding
	Confirm    key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Screenshot key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AimLeft, k.AimRight, k.Fire, k.Pause, k.VolumeUp, k.VolumeDown, k.Help, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AimLeft, k.AimRight, k.Fire, k.Confirm},
		{k.Pause, k.Restart, k.Back},
		{k.VolumeUp, k.VolumeDown, k.Screenshot, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		AimLeft: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "aim left"),
		),
		AimRight: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "aim right"),
		),
		Fire: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space", "fire"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next level"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "levels"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "vol up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "vol down"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultKeyMap()}
}

// Keys returns the bindings used by the mapper.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.AimLeft):
		return core.ActionLeft, false
	case key.Matches(msg, k.AimRight):
		return core.ActionRight, false
	case key.Matches(msg, k.Fire):
		return core.ActionFire, false
	case key.Matches(msg, k.Confirm):
		return core.ActionConfirm, false
	case key.Matches(msg, k.Pause):
		return core.ActionPause, false
	case key.Matches(msg, k.Restart):
		return core.ActionRestart, false
	case key.Matches(msg, k.Back):
		return core.ActionBack, false
	case key.Matches(msg, k.VolumeUp):
		return core.ActionVolumeUp, false
	case key.Matches(msg, k.VolumeDown):
		return core.ActionVolumeDown, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapMouseToFrame records the pointer position and turns a left click into
// a fire action. Returns false for events that carry nothing for the game.
func MapMouseToFrame(msg tea.MouseMsg, frame *core.InputFrame) bool {
	switch msg.Action {
	case tea.MouseActionMotion:
		frame.SetPointer(msg.X, msg.Y)
		return true
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return false
		}
		frame.SetPointer(msg.X, msg.Y)
		frame.Set(core.ActionFire)
		return true
	}
	return false
}
