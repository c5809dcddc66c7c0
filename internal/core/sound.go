package core

// Sound identifies a sound effect requested by a game.
type Sound int

const (
	SoundShot       Sound = iota // Piece launched
	SoundHit                     // Piece snapped into the lattice
	SoundClear                   // One matched piece popped
	SoundFall                    // One floating piece dropped
	SoundBoardClear              // Level cleared
	SoundGameOver
)

// String returns the sound name used in logs.
func (s Sound) String() string {
	switch s {
	case SoundShot:
		return "shot"
	case SoundHit:
		return "hit"
	case SoundClear:
		return "clear"
	case SoundFall:
		return "fall"
	case SoundBoardClear:
		return "board_clear"
	case SoundGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// SoundSink plays sounds on behalf of a game. Implementations must not block
// the simulation tick.
type SoundSink interface {
	// Play queues a sound. Variant selects a per-piece voice; sinks that
	// have no variants ignore it.
	Play(s Sound, variant int)
	// SetMusic starts or stops background music.
	SetMusic(on bool)
}

// NopSound is a SoundSink that discards everything.
type NopSound struct{}

// Play implements SoundSink.
func (NopSound) Play(Sound, int) {}

// SetMusic implements SoundSink.
func (NopSound) SetMusic(bool) {}
