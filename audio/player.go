package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const playerSampleRate = beep.SampleRate(48000)

// Player owns the speaker and a mixer cues are dropped into. A player
// that failed to initialize or was never initialized swallows all
// plays; missing audio never takes the indicator down
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *beep.Ctrl
	volume      float64
	muted       bool
	initialized bool
}

// NewPlayer creates an uninitialized player with the given master
// volume in [0, 1]
func NewPlayer(volume float64) *Player {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize opens the speaker. Callers treat an error as a
// diagnostic, not a failure
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(playerSampleRate, playerSampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	p.master = &beep.Ctrl{Streamer: p.mixer}
	speaker.Play(p.master)
	p.initialized = true
	return nil
}

// Close silences and detaches everything
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.master.Paused = true
	p.mixer.Clear()
	speaker.Unlock()

	p.initialized = false
}

// Suspend pauses cue playback while the console is hidden
func (p *Player) Suspend() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Lock()
		p.master.Paused = true
		speaker.Unlock()
	}
}

// Resume continues cue playback
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Lock()
		p.master.Paused = false
		speaker.Unlock()
	}
}

// SetMuted toggles cue playback without touching the speaker
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// Muted reports the mute toggle
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// play drops a one-shot streamer into the mixer
func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// PlayForState plays the cue mapped to an applied app state. States
// without a dedicated cue get a faint tick
func (p *Player) PlayForState(state string) {
	switch state {
	case "error", "alert":
		p.play(CueError(playerSampleRate, p.volume))
	case "success":
		p.play(CueSuccess(playerSampleRate, p.volume))
	case "processing":
		p.play(CueProcessing(playerSampleRate, p.volume))
	default:
		p.play(CueTick(playerSampleRate, p.volume))
	}
}
