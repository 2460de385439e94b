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
	WaveTriangle
	WaveNoise
)

// Note frequencies in Hz.
const (
	C4  = 261.63
	D4  = 293.66
	Eb4 = 311.13
	E4  = 329.63
	F4  = 349.23
	G4  = 392.00
	A4  = 440.00
	B4  = 493.88
	C5  = 523.25
	E5  = 659.25
	G5  = 783.99
	C6  = 1046.50
	E6  = 1318.51
	A6  = 1760.00
)

// oscillator is a fixed-length wave generator.
type oscillator struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

// newOscillator returns a streamer of the given wave lasting d.
func newOscillator(wave Wave, freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:   freq,
		length: rate.N(d),
		wave:   wave,
		rate:   rate,
		rng:    rand.New(rand.NewSource(int64(freq*1000) + int64(d))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.position >= o.length {
		return 0, false
	}
	for i := range samples {
		if o.position >= o.length {
			return i, true
		}
		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (o.phase - 0.5)
		case WaveTriangle:
			v = 4*math.Abs(o.phase-0.5) - 1
		case WaveNoise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a stream with a linear attack and release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.position < e.attack {
			gain = float64(e.position) / float64(e.attack)
		}
		if left := e.total - e.position; left < e.release {
			gain = math.Max(0, float64(left)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// tone is one enveloped note of length d.
func tone(wave Wave, freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	attack := min(5*time.Millisecond, d/4)
	release := min(40*time.Millisecond, d/2)
	if wave == WaveSine {
		if sine, err := generators.SineTone(rate, freq); err == nil {
			return newEnvelope(beep.Take(rate.N(d), sine), d, attack, release, rate)
		}
	}
	return newEnvelope(newOscillator(wave, freq, d, rate), d, attack, release, rate)
}

// chord mixes notes of the same length.
func chord(wave Wave, d time.Duration, rate beep.SampleRate, freqs ...float64) beep.Streamer {
	parts := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		parts[i] = gain(tone(wave, f, d, rate), 1/float64(len(freqs)))
	}
	return beep.Mix(parts...)
}

// gain scales a stream linearly; zero or less is silent.
func gain(s beep.Streamer, g float64) beep.Streamer {
	if g <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(g)}
}

// decibels scales a stream by db.
func decibels(s beep.Streamer, db float64) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 10, Volume: db / 20}
}
