// Package registry maps game mode IDs to factories. Game packages register
// their modes in init(), and the CLI creates them by ID.
package registry

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-bobble/internal/core"
)

// Game is the interface every game mode implements.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this mode (e.g., "bobble").
	// Used for CLI commands.
	ID() string

	// Title returns a human-readable name for display (e.g., "Bobble: Campaign").
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions (Fire, Pause, etc.).
	// Returns the result of this tick including current game state.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// SoundUser is implemented by games that emit sound effects.
// The platform calls SetSound before the first Reset.
type SoundUser interface {
	SetSound(sink core.SoundSink)
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a game factory under the given mode ID, normally from the
// game package's init(). Panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
