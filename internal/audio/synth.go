package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	sweep    float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a wave of the given shape. A non-zero sweep changes
// the frequency linearly by sweep Hz over the duration.
func NewOscillator(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + o.sweep*float64(o.position)/float64(o.duration)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and an exponential release
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	total    int
	decay    float64
}

// NewEnvelope shapes s: a linear fade-in over attack, then an exponential
// fall-off reaching about -60 dB at duration.
func NewEnvelope(s beep.Streamer, duration, attack time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	if att >= total {
		att = 0
	}
	return &envelope{
		streamer: s,
		attack:   att,
		total:    total,
		decay:    math.Log(1000) / float64(max(total-att, 1)),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		var vol float64
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		} else {
			vol = math.Exp(-e.decay * float64(e.position-e.attack))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// synthSlice is a short rising swish: filtered noise over a sine sweep.
func synthSlice(rate beep.SampleRate) beep.Streamer {
	const d = 180 * time.Millisecond
	noise := NewEnvelope(NewOscillator(0, 0, d, WaveNoise, rate), d, 5*time.Millisecond, rate)
	sweep := NewEnvelope(NewOscillator(600, 1400, d, WaveSine, rate), d, 10*time.Millisecond, rate)
	return beep.Mix(newVolume(noise, 0.35), newVolume(sweep, 0.4))
}

// synthExplosion is a long noise burst over a low rumble.
func synthExplosion(rate beep.SampleRate) beep.Streamer {
	const d = 900 * time.Millisecond
	noise := NewEnvelope(NewOscillator(0, 0, d, WaveNoise, rate), d, 2*time.Millisecond, rate)
	rumble := NewEnvelope(NewOscillator(70, -40, d, WaveSaw, rate), d, 2*time.Millisecond, rate)
	return beep.Mix(newVolume(noise, 0.6), newVolume(rumble, 0.5))
}

// synthCombo is a rising two-note chime (B5, E6).
func synthCombo(rate beep.SampleRate) beep.Streamer {
	const (
		d1 = 90 * time.Millisecond
		d2 = 260 * time.Millisecond
	)
	n1 := NewEnvelope(NewOscillator(987.77, 0, d1, WaveSquare, rate), d1, 3*time.Millisecond, rate)
	n2 := NewEnvelope(NewOscillator(1318.51, 0, d2, WaveSquare, rate), d2, 3*time.Millisecond, rate)
	return newVolume(beep.Seq(n1, n2), 0.25)
}

// synthGameOver is a falling saw tone.
func synthGameOver(rate beep.SampleRate) beep.Streamer {
	const d = 700 * time.Millisecond
	tone := NewEnvelope(NewOscillator(330, -220, d, WaveSaw, rate), d, 10*time.Millisecond, rate)
	return newVolume(tone, 0.3)
}
