package starbloom

import (
	"io"
	"math"
	"time"
)

// DuckState is the narration ducking lifecycle.
type DuckState uint8

const (
	DuckIdle       DuckState = iota
	DuckFadingDown           // music ramping toward the duck volume
	DuckNarrating            // voice playing
	DuckRestoring            // music ramping back to its pre-duck volume
)

func (s DuckState) String() string {
	switch s {
	case DuckIdle:
		return "idle"
	case DuckFadingDown:
		return "fading-down"
	case DuckNarrating:
		return "narrating"
	case DuckRestoring:
		return "restoring"
	}
	return "unknown"
}

// DuckConfig holds the ducking levels and timings.
type DuckConfig struct {
	// DefaultVolume is the pre-duck volume used when music reports NaN.
	DefaultVolume  float64
	DuckVolume     float64
	Duck           time.Duration
	Restore        time.Duration
	FailureRestore time.Duration
	PauseMusic     bool
}

// Ducker lowers music under the narration voice and holds the voice gate
// for the duration. Completion callbacks carry the generation they were
// issued under; any transition bumps the generation so stale callbacks
// are dropped.
type Ducker struct {
	cfg   DuckConfig
	music MediaChannel
	voice MediaChannel
	ramp  *Ramper
	gates *GateController
	log   logger

	// journey reports whether music was ever started, gating resumes.
	journey func() bool
	emit    func(t EventType, err error)

	state       DuckState
	generation  uint64
	preDuck     float64
	wasPlaying  bool
	pausedMusic bool
}

// NewDucker returns an idle Ducker. music and ramp may be nil when the host
// has no music channel; gates may be nil when it has no scroller.
func NewDucker(cfg DuckConfig, music, voice MediaChannel, ramp *Ramper, gates *GateController) *Ducker {
	return &Ducker{
		cfg:     cfg,
		music:   music,
		voice:   voice,
		ramp:    ramp,
		gates:   gates,
		log:     logger{out: io.Discard},
		journey: func() bool { return true },
		emit:    func(EventType, error) {},
	}
}

// State returns the current lifecycle state.
func (d *Ducker) State() DuckState { return d.state }

// PreDuckVolume returns the music volume recorded when ducking began.
func (d *Ducker) PreDuckVolume() float64 { return d.preDuck }

// Trigger starts narration. From Idle it records the music volume, locks
// the voice gate, and ducks. While fading down it does nothing; while
// narrating it restarts the voice from zero; while restoring it abandons
// the restore and ducks again from the current volume.
func (d *Ducker) Trigger() error {
	if d.voice == nil {
		return ErrNoVoice
	}
	switch d.state {
	case DuckIdle:
		d.preDuck = d.cfg.DefaultVolume
		d.wasPlaying = false
		if d.music != nil {
			if v := d.music.Volume(); !math.IsNaN(v) {
				d.preDuck = v
			}
			d.wasPlaying = !d.music.Paused()
		}
		d.lockGate()
		d.duck()
	case DuckFadingDown:
	case DuckNarrating:
		d.startVoice()
	case DuckRestoring:
		d.lockGate()
		d.duck()
	}
	return nil
}

func (d *Ducker) lockGate() {
	if d.gates != nil {
		d.gates.ActivateVoice()
	}
}

func (d *Ducker) releaseGate() {
	if d.gates != nil {
		d.gates.ReleaseVoice()
	}
}

func (d *Ducker) duck() {
	d.state = DuckFadingDown
	d.generation++
	if d.music == nil {
		d.ducked()
		return
	}
	gen := d.generation
	d.ramp.Start(d.cfg.DuckVolume, d.cfg.Duck, func() {
		if gen == d.generation {
			d.ducked()
		}
	})
}

func (d *Ducker) ducked() {
	if d.music != nil && d.cfg.PauseMusic && d.wasPlaying {
		d.music.Pause()
		d.pausedMusic = true
	}
	d.startVoice()
}

func (d *Ducker) startVoice() {
	d.state = DuckNarrating
	d.generation++
	gen := d.generation

	d.voice.Pause()
	if err := d.voice.Seek(0); err != nil {
		d.log.logf("voice seek: %v", err)
	}
	d.voice.OnEnded(func() {
		if gen == d.generation && d.state == DuckNarrating {
			d.voiceEnded()
		}
	})
	if err := d.voice.Play(); err != nil {
		d.fail(err)
		return
	}
	d.emit(EventNarrationStarted, nil)
}

func (d *Ducker) voiceEnded() {
	d.emit(EventNarrationEnded, nil)
	d.state = DuckRestoring
	d.generation++
	if d.music == nil {
		d.finish()
		return
	}
	if d.pausedMusic {
		d.pausedMusic = false
		if err := d.music.Play(); err != nil {
			d.log.logf("music resume: %v", err)
			d.emit(EventMediaError, err)
		}
		d.music.SetVolume(d.cfg.DuckVolume)
	}
	gen := d.generation
	d.ramp.Start(d.preDuck, d.cfg.Restore, func() {
		if gen == d.generation {
			d.finish()
		}
	})
}

func (d *Ducker) finish() {
	d.state = DuckIdle
	d.generation++
	d.releaseGate()
}

// fail handles a rejected voice start: the gate is released at once and
// music is brought back on a short ramp.
func (d *Ducker) fail(err error) {
	d.log.logf("narration failed: %v", err)
	d.emit(EventMediaError, err)
	d.state = DuckIdle
	d.generation++
	d.releaseGate()
	if d.music == nil {
		return
	}
	d.resumeMusic()
	d.ramp.Start(d.preDuck, d.cfg.FailureRestore, nil)
}

func (d *Ducker) resumeMusic() {
	paused := d.pausedMusic
	d.pausedMusic = false
	if (paused || d.music.Paused()) && d.journey() {
		if err := d.music.Play(); err != nil {
			d.log.logf("music resume: %v", err)
			d.emit(EventMediaError, err)
		}
	}
}

// Cancel aborts narration immediately: the voice stops and rewinds, the
// voice gate is released, and the music ramp is canceled with the volume
// snapped to where the ramp was headed. It is safe in any state.
func (d *Ducker) Cancel() {
	was := d.state
	d.state = DuckIdle
	d.generation++

	if d.voice != nil {
		d.voice.Pause()
		if err := d.voice.Seek(0); err != nil {
			d.log.logf("voice seek: %v", err)
		}
	}
	d.releaseGate()

	if d.music != nil {
		if r := d.ramp.Active(); r != nil && was == DuckIdle {
			d.music.SetVolume(r.To)
		}
		d.ramp.Cancel()
		d.resumeMusic()
		if was != DuckIdle {
			d.music.SetVolume(d.preDuck)
		}
	}
	if was != DuckIdle {
		d.emit(EventNarrationCanceled, nil)
	}
}
