// Package audio synthesises the game's sound effects and background music
// with beep. Nothing here touches an output device: the Manager exposes a
// single root streamer that speakerout (or a test) pulls samples from.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/tui-bobble/internal/core"
)

// SampleRate is the rate every streamer is generated at.
const SampleRate = beep.SampleRate(44100)

// maxVoices caps concurrently mixed effects. A large fall can request dozens
// of pops in one tick; extra ones are dropped.
const maxVoices = 12

// note is one step of a synthesised effect.
type note struct {
	freq float64       // Hz, 0 for a rest
	dur  time.Duration // Length of the step
}

// Manager implements core.SoundSink on top of a beep mixer.
type Manager struct {
	mu     sync.Locker
	mixer  *beep.Mixer
	volume *effects.Volume
	music  *beep.Ctrl
	level  int
	logger *log.Logger
}

// NewManager creates a manager at the given volume (0-100).
func NewManager(volume int, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	mixer := &beep.Mixer{}
	m := &Manager{
		mu:     &sync.Mutex{},
		mixer:  mixer,
		volume: &effects.Volume{Streamer: mixer, Base: 2},
		logger: logger,
	}
	m.music = &beep.Ctrl{Streamer: newMelody(musicLoop), Paused: true}
	mixer.Add(m.music)
	m.SetVolume(volume)
	return m
}

// SetLocker replaces the lock guarding the mixer. Output devices that pull
// samples on their own goroutine install their own lock here.
func (m *Manager) SetLocker(l sync.Locker) {
	m.mu = l
}

// Streamer returns the root streamer: every effect and the music, mixed and
// scaled by the volume.
func (m *Manager) Streamer() beep.Streamer {
	return m.volume
}

// Volume returns the current volume in [0, 100].
func (m *Manager) Volume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// SetVolume sets the output volume, clamped to [0, 100]. Zero mutes.
func (m *Manager) SetVolume(v int) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = v
	m.volume.Silent = v == 0
	if v > 0 {
		m.volume.Volume = math.Log2(float64(v) / 100)
	}
}

// Play implements core.SoundSink.
func (m *Manager) Play(s core.Sound, variant int) {
	notes := effectNotes(s, variant)
	if len(notes) == 0 {
		return
	}
	streamer, err := render(notes)
	if err != nil {
		m.logger.Warn("audio: cannot synthesise sound", "sound", s, "err", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mixer.Len() > maxVoices {
		return
	}
	m.mixer.Add(&effects.Gain{Streamer: streamer, Gain: -0.6})
}

// SetMusic implements core.SoundSink.
func (m *Manager) SetMusic(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.music.Paused = !on
}

// Playing reports whether background music is running.
func (m *Manager) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.music.Paused
}

// Close silences everything still queued.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.music.Paused = true
	m.mixer.Clear()
}

// effectNotes returns the note sequence for a sound. Clear pops are pitched
// by the piece variant so different avatars sound different.
func effectNotes(s core.Sound, variant int) []note {
	switch s {
	case core.SoundShot:
		return []note{{660, 40 * time.Millisecond}, {880, 30 * time.Millisecond}}
	case core.SoundHit:
		return []note{{220, 50 * time.Millisecond}}
	case core.SoundClear:
		if variant < 0 {
			variant = -variant
		}
		step := float64(variant%6) * 2
		return []note{{523.25 * math.Pow(2, step/12), 70 * time.Millisecond}}
	case core.SoundFall:
		return []note{{392, 50 * time.Millisecond}, {330, 60 * time.Millisecond}}
	case core.SoundBoardClear:
		return []note{
			{523.25, 110 * time.Millisecond},
			{659.25, 110 * time.Millisecond},
			{783.99, 110 * time.Millisecond},
			{1046.5, 220 * time.Millisecond},
		}
	case core.SoundGameOver:
		return []note{
			{392, 180 * time.Millisecond},
			{329.63, 180 * time.Millisecond},
			{261.63, 180 * time.Millisecond},
			{196, 360 * time.Millisecond},
		}
	default:
		return nil
	}
}

// render turns notes into one finite streamer.
func render(notes []note) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		samples := SampleRate.N(n.dur)
		if n.freq <= 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(SampleRate, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, newFade(beep.Take(samples, tone), samples))
	}
	return beep.Seq(parts...), nil
}

// fade applies a short attack and a linear release to a finite streamer so
// notes do not click.
type fade struct {
	s     beep.Streamer
	pos   int
	total int
}

func newFade(s beep.Streamer, total int) *fade {
	return &fade{s: s, total: total}
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.s.Stream(samples)
	attack := SampleRate.N(5 * time.Millisecond)
	for i := 0; i < n; i++ {
		g := 1.0
		if f.pos < attack {
			g = float64(f.pos) / float64(attack)
		}
		if rem := f.total - f.pos; rem < f.total/2 {
			g *= float64(rem) / float64(f.total/2)
		}
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error {
	return f.s.Err()
}
