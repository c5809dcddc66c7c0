package audio

import (
	"math"
	"time"
)

// musicLoop is the background tune, repeated forever.
var musicLoop = []note{
	{261.63, 240 * time.Millisecond},
	{329.63, 240 * time.Millisecond},
	{392.00, 240 * time.Millisecond},
	{329.63, 240 * time.Millisecond},
	{293.66, 240 * time.Millisecond},
	{349.23, 240 * time.Millisecond},
	{440.00, 240 * time.Millisecond},
	{349.23, 240 * time.Millisecond},
	{0, 120 * time.Millisecond},
	{246.94, 240 * time.Millisecond},
	{293.66, 240 * time.Millisecond},
	{392.00, 480 * time.Millisecond},
	{0, 240 * time.Millisecond},
}

// melody is an endless square-ish oscillator stepping through notes.
// It never reports exhaustion, so the mixer keeps it until Clear.
type melody struct {
	notes []note
	idx   int
	pos   int
	phase float64
}

func newMelody(notes []note) *melody {
	return &melody{notes: notes}
}

func (m *melody) Stream(samples [][2]float64) (int, bool) {
	if len(m.notes) == 0 {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}
	for i := range samples {
		n := m.notes[m.idx]
		length := SampleRate.N(n.dur)
		var val float64
		if n.freq > 0 {
			// Soft square: a sine with its third harmonic.
			val = 0.08 * (math.Sin(2*math.Pi*m.phase) + math.Sin(6*math.Pi*m.phase)/3)
			m.phase += n.freq / float64(SampleRate)
			m.phase -= math.Floor(m.phase)
		}
		samples[i][0] = val
		samples[i][1] = val

		m.pos++
		if m.pos >= length {
			m.pos = 0
			m.idx = (m.idx + 1) % len(m.notes)
		}
	}
	return len(samples), true
}

func (m *melody) Err() error { return nil }
