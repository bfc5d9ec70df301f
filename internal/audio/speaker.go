//go:build !noaudio

package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

type speakerOutput struct{}

// openOutput initializes the system speaker with a 100ms buffer and starts
// playing the mixer.
func openOutput(sr beep.SampleRate, mixer *beep.Mixer) (output, error) {
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, err
	}
	speaker.Play(mixer)
	return speakerOutput{}, nil
}

func (speakerOutput) lock()   { speaker.Lock() }
func (speakerOutput) unlock() { speaker.Unlock() }

func (speakerOutput) close() {
	speaker.Clear()
	speaker.Close()
}
