package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  40,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Phase is the coarse lifecycle of a game session.
type Phase string

const (
	PhaseReady  Phase = "ready"  // Waiting for the player to fire
	PhaseFiring Phase = "firing" // A shot is in flight
	PhasePaused Phase = "paused"
	PhaseOver   Phase = "over"  // Lost
	PhaseClear  Phase = "clear" // Board emptied
)

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int   // Current score
	GameOver bool  // Whether the session has ended (lost or won)
	Won      bool  // Whether the session ended with a cleared board
	Paused   bool  // Whether the game is paused
	Phase    Phase // Detailed lifecycle phase
	Level    string
}

// Event is something noteworthy that happened during a tick.
type Event int

const (
	EventShot Event = iota
	EventSnap
	EventClear
	EventFall
	EventDrop
	EventLevelClear
	EventGameOver
	EventDiscard
)

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State  GameState
	Events []Event
}

// Has reports whether the tick produced the event.
func (r StepResult) Has(e Event) bool {
	for _, ev := range r.Events {
		if ev == e {
			return true
		}
	}
	return false
}
