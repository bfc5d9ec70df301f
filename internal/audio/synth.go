package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// voice is a single finite note: an oscillator gliding from one frequency
// to another under a linear attack and exponential decay.
type voice struct {
	sr       beep.SampleRate
	wave     Wave
	from, to float64 // Hz
	total    int
	attack   int
	decay    float64 // 1/s
	gain     float64

	pos   int
	phase float64
	noise uint32
}

func newVoice(sr beep.SampleRate, wave Wave, from, to float64, d, attack time.Duration, decay, gain float64) *voice {
	return &voice{
		sr:     sr,
		wave:   wave,
		from:   from,
		to:     to,
		total:  sr.N(d),
		attack: sr.N(attack),
		decay:  decay,
		gain:   gain,
		noise:  0x9e3779b9,
	}
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if v.pos >= v.total {
			return i, i > 0
		}
		progress := float64(v.pos) / float64(v.total)
		freq := v.from + (v.to-v.from)*progress
		t := float64(v.pos) / float64(v.sr)

		var val float64
		switch v.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * v.phase)
		case WaveSquare:
			val = 1
			if v.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (v.phase - 0.5)
		case WaveNoise:
			// xorshift keeps the voice deterministic
			v.noise ^= v.noise << 13
			v.noise ^= v.noise >> 17
			v.noise ^= v.noise << 5
			val = float64(v.noise)/math.MaxUint32*2 - 1
		}

		env := math.Exp(-v.decay * t)
		if v.pos < v.attack {
			env *= float64(v.pos) / float64(v.attack)
		}
		val *= env * v.gain

		samples[i][0] = val
		samples[i][1] = val

		v.phase += freq / float64(v.sr)
		v.phase -= math.Floor(v.phase)
		v.pos++
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }

// note is a sine tone from beep's generators, cut to d and faded out.
func note(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return beep.Silence(sr.N(d))
	}
	fade := &effects.Volume{Streamer: beep.Take(sr.N(d), sine), Base: 2, Volume: -2}
	return beep.Seq(fade, beep.Silence(sr.N(d/4)))
}

// synthCue builds the stand-in sound for a cue when no WAV file exists.
// rng picks between variants the way a sound bank would.
func synthCue(sr beep.SampleRate, cue string, rng *rand.Rand) beep.Streamer {
	ms := time.Millisecond
	switch cue {
	case "level_start":
		return beep.Seq(note(sr, 440, 120*ms), note(sr, 554, 120*ms), note(sr, 659, 240*ms))
	case "health_up":
		return beep.Seq(note(sr, 660, 80*ms), note(sr, 880, 140*ms))
	case "gun_pickup":
		return beep.Mix(
			newVoice(sr, WaveSquare, 200, 200, 60*ms, 2*ms, 30, 0.3),
			beep.Seq(beep.Silence(sr.N(80*ms)), newVoice(sr, WaveSquare, 320, 320, 60*ms, 2*ms, 30, 0.3)),
		)
	case "pistol_shot":
		return beep.Mix(
			newVoice(sr, WaveNoise, 0, 0, 120*ms, ms, 35, 0.6),
			newVoice(sr, WaveSine, 180, 60, 120*ms, ms, 25, 0.5),
		)
	case "shotgun_shot":
		return beep.Mix(
			newVoice(sr, WaveNoise, 0, 0, 300*ms, ms, 14, 0.8),
			newVoice(sr, WaveSine, 120, 40, 250*ms, ms, 12, 0.6),
		)
	case "player_hit":
		base := 140 + 40*rng.Float64()
		return newVoice(sr, WaveSaw, base, base*0.6, 150*ms, 5*ms, 12, 0.4)
	case "zombie_moan":
		base := 70 + 50*rng.Float64()
		return newVoice(sr, WaveSaw, base, base*0.8, 700*ms, 150*ms, 2.5, 0.25)
	case "zombie_hit":
		return newVoice(sr, WaveNoise, 0, 0, 80*ms, ms, 40, 0.4)
	case "zombie_death":
		return beep.Mix(
			newVoice(sr, WaveSaw, 110, 40, 450*ms, 10*ms, 5, 0.35),
			newVoice(sr, WaveNoise, 0, 0, 200*ms, ms, 18, 0.3),
		)
	default:
		return nil
	}
}

// drone is the endless background loop: a slow minor bass line with a
// pulsing envelope.
type drone struct {
	sr  beep.SampleRate
	pos int
}

var droneNotes = [...]float64{55, 55, 65.41, 49}

func (d *drone) Stream(samples [][2]float64) (n int, ok bool) {
	bar := d.sr.N(2 * time.Second)
	for i := range samples {
		t := float64(d.pos) / float64(d.sr)
		freq := droneNotes[(d.pos/bar)%len(droneNotes)]
		pulse := 0.5 + 0.5*math.Sin(2*math.Pi*0.5*t)
		val := 0.12 * pulse * (math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(2*math.Pi*freq*2*t))
		samples[i][0] = val
		samples[i][1] = val
		d.pos++
	}
	return len(samples), true
}

func (d *drone) Err() error { return nil }

// withVolume scales s by vol; zero or negative volume is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
