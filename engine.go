package starbloom

import (
	"fmt"
	"math"
	"time"
)

// Engine ties the backdrop compositor to the scroll gates and the narration
// ducker. Every method runs on the host's single update thread.
type Engine struct {
	cfg  Config
	caps Capabilities
	log  logger

	comp   *Compositor
	gates  *GateController
	music  *Ramper
	ducker *Ducker

	journey          bool
	narrationVisible bool

	now    time.Duration
	last   time.Duration
	ticked bool
	stats  FrameStats
}

// New creates an engine for the given host capabilities. Call Initialize
// before the first frame.
func New(cfg Config, caps Capabilities) *Engine {
	e := &Engine{cfg: cfg, caps: caps, log: newLogger(&cfg)}

	if caps.Scroll != nil {
		e.gates = NewGateController(caps.Scroll, cfg.EndRelease, caps.EndAnchor)
		e.gates.notify = e.gateChanged
	}
	if caps.Music != nil {
		e.music = NewRamper(caps.Music)
	}
	e.ducker = NewDucker(DuckConfig{
		DefaultVolume:  cfg.MusicVolume,
		DuckVolume:     cfg.DuckVolume,
		Duck:           cfg.DuckDuration,
		Restore:        cfg.RestoreDuration,
		FailureRestore: cfg.FailureRestoreDuration,
		PauseMusic:     caps.PauseMusicDuringNarration,
	}, caps.Music, caps.Voice, e.music, e.gates)
	e.ducker.log = e.log
	e.ducker.journey = func() bool { return e.journey }
	e.ducker.emit = func(t EventType, err error) { e.emit(Event{Type: t, Err: err}) }
	return e
}

// Initialize seeds the procedural content and sizes the viewport.
func (e *Engine) Initialize(seed uint32, size Size) {
	cfg := e.cfg
	cfg.Seed = seed
	e.comp = NewCompositor(cfg, size)
	e.log.debugf("initialized seed=%d size=%vx%v", seed, size.Width, size.Height)
}

// OnResize discards size-dependent caches.
func (e *Engine) OnResize(size Size) {
	if e.comp == nil {
		return
	}
	e.comp.Resize(size)
}

// SetActiveScene sets the scene the backdrop blends toward.
func (e *Engine) SetActiveScene(s Scene) {
	if e.comp == nil {
		return
	}
	if e.comp.SetActiveScene(s) {
		e.emit(Event{Type: EventSceneChanged, Scene: s})
	}
}

// SetActiveSceneName is SetActiveScene by name. Unknown names return an
// error and leave the scene unchanged.
func (e *Engine) SetActiveSceneName(name string) error {
	s, ok := ParseScene(name)
	if !ok {
		return fmt.Errorf("starbloom: unknown scene %q", name)
	}
	e.SetActiveScene(s)
	return nil
}

// OnFrameTick advances one frame. now is a monotonic clock.
func (e *Engine) OnFrameTick(progress float64, pointer Vec2, now time.Duration) {
	var dt time.Duration
	if e.ticked && now > e.last {
		dt = now - e.last
	}
	e.last, e.now, e.ticked = now, now, true

	if e.gates != nil {
		e.gates.OnFrame()
	}
	if e.music != nil {
		e.music.Update(dt)
	}
	if e.comp == nil {
		return
	}

	start := time.Now()
	e.comp.Tick(progress, pointer, now)
	e.stats.SimulateTime = time.Since(start)
	e.stats.Weights = e.comp.Weights()
}

// Draw paints the current frame onto s.
func (e *Engine) Draw(s Surface) {
	if e.comp == nil {
		return
	}
	start := time.Now()
	e.comp.Draw(s)
	e.stats.DrawTime = time.Since(start)
}

// TriggerNarration starts the narration track and locks forward scrolling
// until it ends. When the host reports visibility, the narration section
// must be on screen.
func (e *Engine) TriggerNarration() error {
	if e.caps.Visibility && !e.narrationVisible {
		return ErrNarrationUnavailable
	}
	return e.ducker.Trigger()
}

// OnNarrationSectionVisibilityChange reports the narration section entering
// or leaving the viewport. Leaving cancels narration and releases the voice
// gate immediately.
func (e *Engine) OnNarrationSectionVisibilityChange(visible bool) {
	if !e.caps.Visibility {
		return
	}
	e.narrationVisible = visible
	if !visible {
		e.ducker.Cancel()
	}
}

// OnEndSectionVisibility reports the visible ratio of the final section.
func (e *Engine) OnEndSectionVisibility(ratio float64) {
	if !e.caps.Visibility || e.gates == nil {
		return
	}
	e.gates.SetEndVisibility(ratio, e.cfg.VisibilityThreshold)
}

// StartJourney begins the experience: music starts silent and fades up, and
// the end lock may engage from now on.
func (e *Engine) StartJourney() {
	if e.journey {
		return
	}
	e.journey = true
	e.emit(Event{Type: EventJourneyStarted})
	if e.gates != nil {
		e.gates.StartJourney()
	}
	if e.caps.Music == nil {
		return
	}
	m := e.caps.Music
	m.SetVolume(0)
	m.SetMuted(false)
	if err := m.Play(); err != nil {
		e.log.logf("music failed to play: %v", err)
		e.emit(Event{Type: EventMediaError, Err: err})
		return
	}
	e.music.Start(e.cfg.MusicVolume, e.cfg.MusicFadeIn, nil)
}

// JourneyStarted reports whether StartJourney has run.
func (e *Engine) JourneyStarted() bool { return e.journey }

// ToggleMute flips the music mute flag and returns the new state.
func (e *Engine) ToggleMute() bool {
	if e.caps.Music == nil {
		return false
	}
	muted := !e.caps.Music.Muted()
	e.caps.Music.SetMuted(muted)
	return muted
}

// HandleInput lets active gates intercept a scroll-affecting input. It
// reports whether the event was suppressed.
func (e *Engine) HandleInput(ev *InputEvent) bool {
	if e.gates == nil {
		return false
	}
	return e.gates.HandleInput(ev)
}

// HandleScroll must be called after every scroll offset change.
func (e *Engine) HandleScroll() {
	if e.gates != nil {
		e.gates.OnScroll()
	}
}

func (e *Engine) gateChanged(g *Gate) {
	t := EventGateReleased
	if g.Active() {
		t = EventGateActivated
	}
	e.emit(Event{Type: t, Gate: g.Kind, Offset: g.LockOffset()})
}

func (e *Engine) emit(ev Event) {
	ev.At = e.now
	if ev.Type != EventMediaError {
		e.log.debugf("event %v", ev.Type)
	}
	if e.caps.Sink != nil {
		e.caps.Sink.EmitEvent(ev)
	}
}

// Gates returns the gate controller, or nil without a scroller.
func (e *Engine) Gates() *GateController { return e.gates }

// Ducker returns the narration ducker.
func (e *Engine) Ducker() *Ducker { return e.ducker }

// Compositor returns the backdrop compositor, or nil before Initialize.
func (e *Engine) Compositor() *Compositor { return e.comp }

// Stats returns timings for the last frame.
func (e *Engine) Stats() FrameStats { return e.stats }

// DeviceScale clamps a reported device pixel ratio to [1, MaxDeviceScale].
func (e *Engine) DeviceScale(ratio float64) float64 {
	max := math.Max(1, e.cfg.MaxDeviceScale)
	if math.IsNaN(ratio) || ratio < 1 {
		return 1
	}
	return math.Min(ratio, max)
}
