package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionLeft              // A, Left arrow - rotate aim left
	ActionRight             // D, Right arrow - rotate aim right
	ActionFire              // Space, Up - fire the loaded piece
	ActionConfirm           // Enter - confirm / next level
	ActionBack              // B, Escape - go back to the level picker
	ActionRestart           // R key - restart after game over or clear
	ActionQuit              // Q, Ctrl+C - exit
	ActionPause             // P - pause/unpause game
	ActionVolumeUp          // + / =
	ActionVolumeDown        // -
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionVolumeUp:
		return "VolumeUp"
	case ActionVolumeDown:
		return "VolumeDown"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state during one simulation tick.
// It contains all actions that were triggered during this frame and, when a
// mouse is in use, the last pointer position in screen cells.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	pointerX, pointerY int
	hasPointer         bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// SetPointer records the pointer position in screen cells.
func (f *InputFrame) SetPointer(x, y int) {
	f.pointerX = x
	f.pointerY = y
	f.hasPointer = true
}

// Pointer returns the pointer position and whether one was recorded.
func (f InputFrame) Pointer() (x, y int, ok bool) {
	return f.pointerX, f.pointerY, f.hasPointer
}

// Clear resets all actions and the pointer for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.hasPointer = false
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.pointerX, clone.pointerY, clone.hasPointer = f.pointerX, f.pointerY, f.hasPointer
	return clone
}
