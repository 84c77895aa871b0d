// Package audio plays short synthesized cues when the indicator
// applies a state transition: a buzz for error, a chime for success,
// a blip for processing. Everything is generated, no sample assets
package audio

import (
	"math"
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
)

// oscillator generates a bounded raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a wave generator for the given duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, false
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
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope shapes a stream with linear attack and release ramps
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		var vol float64 = 1.0

		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps a stream in a volume effect
// math.Log2(0) is -Inf, so zero volume switches to silent instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Cue timing
const (
	errorCueDuration    = 160 * time.Millisecond
	errorCueAttack      = 5 * time.Millisecond
	errorCueRelease     = 110 * time.Millisecond
	chimeNoteDuration   = 120 * time.Millisecond
	chimeAttack         = 4 * time.Millisecond
	chimeNote1Release   = 70 * time.Millisecond
	chimeNote2Release   = 100 * time.Millisecond
	blipDuration        = 70 * time.Millisecond
	blipAttack          = 3 * time.Millisecond
	blipRelease         = 40 * time.Millisecond
	tickDuration        = 45 * time.Millisecond
	tickAttack          = 2 * time.Millisecond
	tickRelease         = 30 * time.Millisecond
)

// CueError is a short harsh saw buzz
func CueError(rate beep.SampleRate, vol float64) beep.Streamer {
	osc := NewOscillator(110.0, errorCueDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, errorCueDuration, errorCueAttack, errorCueRelease, rate)
	return newVolume(shaped, vol)
}

// CueSuccess is a rising two-note sine chime (B5 then E6)
func CueSuccess(rate beep.SampleRate, vol float64) beep.Streamer {
	n1 := NewOscillator(987.77, chimeNoteDuration, WaveSine, rate)
	n1Shaped := NewEnvelope(n1, chimeNoteDuration, chimeAttack, chimeNote1Release, rate)

	n2 := NewOscillator(1318.51, chimeNoteDuration, WaveSine, rate)
	n2Shaped := NewEnvelope(n2, chimeNoteDuration, chimeAttack, chimeNote2Release, rate)

	return newVolume(beep.Seq(n1Shaped, n2Shaped), vol)
}

// CueProcessing is a brief mid sine blip
func CueProcessing(rate beep.SampleRate, vol float64) beep.Streamer {
	osc := NewOscillator(660.0, blipDuration, WaveSine, rate)
	shaped := NewEnvelope(osc, blipDuration, blipAttack, blipRelease, rate)
	return newVolume(shaped, vol)
}

// CueTick is a faint click for any other transition
func CueTick(rate beep.SampleRate, vol float64) beep.Streamer {
	osc := NewOscillator(440.0, tickDuration, WaveSquare, rate)
	shaped := NewEnvelope(osc, tickDuration, tickAttack, tickRelease, rate)
	return newVolume(shaped, vol*0.5)
}
