// Package audio plays the game's sound cues and background music through
// beep. Cues come from WAV files when the asset provider has them and are
// synthesized otherwise. Without a usable audio device every call is a no-op.
package audio

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/vovakirdan/tui-zombies/internal/assets"
	"github.com/vovakirdan/tui-zombies/internal/config"
)

// Cues lists every cue name the game emits.
var Cues = []string{
	"level_start",
	"health_up",
	"gun_pickup",
	"player_hit",
	"zombie_moan",
	"zombie_hit",
	"zombie_death",
	"pistol_shot",
	"shotgun_shot",
}

// MusicName is the logical name of the background music file.
const MusicName = "music"

// output is the device the mixer drains into.
type output interface {
	lock()
	unlock()
	close()
}

// Player mixes cues and music. It implements entity.Cues and is safe for
// concurrent use.
type Player struct {
	mu     sync.Mutex
	sr     beep.SampleRate
	volume float64
	mixer  *beep.Mixer
	out    output

	buffers map[string]*beep.Buffer
	music   *beep.Ctrl
	rng     *rand.Rand
	logger  *log.Logger
}

// New decodes the WAV files the provider has for known cues. It does not
// touch the audio device; call Open for that.
func New(cfg config.AudioConfig, provider assets.Provider, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	sr := beep.SampleRate(cfg.SampleRate)
	if sr <= 0 {
		sr = 44100
	}
	p := &Player{
		sr:      sr,
		volume:  cfg.Volume,
		mixer:   &beep.Mixer{},
		buffers: make(map[string]*beep.Buffer),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  logger,
	}
	if provider == nil {
		return p
	}
	for _, name := range append(slices.Clone(Cues), MusicName) {
		buf, err := p.load(provider, name)
		switch {
		case err == nil:
			p.buffers[name] = buf
		case errors.Is(err, assets.ErrNotFound):
			// synthesized instead
		default:
			logger.Warn("cannot decode sound, using synthesized cue", "name", name, "error", err)
		}
	}
	return p
}

func (p *Player) load(provider assets.Provider, name string) (*beep.Buffer, error) {
	rc, err := provider.OpenSound(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	s, format, err := wav.Decode(rc)
	if err != nil {
		return nil, &assets.LoadError{Name: name, Err: err}
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != p.sr {
		src = beep.Resample(4, format.SampleRate, p.sr, s)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: p.sr, NumChannels: 2, Precision: 2})
	buf.Append(src)
	if err := s.Err(); err != nil {
		return nil, &assets.LoadError{Name: name, Err: err}
	}
	return buf, nil
}

// Open starts the audio device and begins draining the mixer.
func (p *Player) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out != nil {
		return nil
	}
	out, err := openOutput(p.sr, p.mixer)
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	p.out = out
	return nil
}

// OpenOrWarn opens the device and logs instead of failing, leaving the
// player silent.
func (p *Player) OpenOrWarn() *Player {
	if err := p.Open(); err != nil {
		p.logger.Warn("audio unavailable, continuing without sound", "error", err)
	}
	return p
}

// Play implements entity.Cues. Unknown cues are ignored.
func (p *Player) Play(cue string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return
	}
	s := p.streamer(cue)
	if s == nil {
		return
	}
	p.out.lock()
	p.mixer.Add(withVolume(s, p.volume))
	p.out.unlock()
}

// streamer returns a fresh stream for cue, or nil.
func (p *Player) streamer(cue string) beep.Streamer {
	if buf, ok := p.buffers[cue]; ok {
		return buf.Streamer(0, buf.Len())
	}
	return synthCue(p.sr, cue, p.rng)
}

// PlayMusic starts the background loop, replacing any running one.
func (p *Player) PlayMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return
	}
	p.out.lock()
	defer p.out.unlock()
	if p.music != nil {
		// A nil streamer makes the mixer drop the old loop on its next pass.
		p.music.Streamer = nil
	}
	p.music = &beep.Ctrl{Streamer: withVolume(p.musicStreamer(), p.volume*0.6)}
	p.mixer.Add(p.music)
}

func (p *Player) musicStreamer() beep.Streamer {
	if buf, ok := p.buffers[MusicName]; ok && buf.Len() > 0 {
		return beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	return &drone{sr: p.sr}
}

// StopMusic silences the background loop.
func (p *Player) StopMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil || p.music == nil {
		return
	}
	p.out.lock()
	p.music.Streamer = nil
	p.music = nil
	p.out.unlock()
}

// Close stops everything and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return
	}
	p.out.lock()
	p.mixer.Clear()
	p.music = nil
	p.out.unlock()
	p.out.close()
	p.out = nil
}
