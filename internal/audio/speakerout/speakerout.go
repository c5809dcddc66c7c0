// Package speakerout plays an audio.Manager through the system speaker.
package speakerout

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-bobble/internal/audio"
)

// speakerLock guards the mixer with the speaker's own lock, which the
// playback goroutine holds while pulling samples.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// Start initialises the speaker and begins streaming the manager.
// The returned function stops playback and releases the device.
func Start(m *audio.Manager) (stop func(), err error) {
	if err := speaker.Init(audio.SampleRate, audio.SampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: cannot open speaker: %w", err)
	}
	m.SetLocker(speakerLock{})
	speaker.Play(m.Streamer())

	return func() {
		m.Close()
		speaker.Clear()
		speaker.Close()
	}, nil
}
