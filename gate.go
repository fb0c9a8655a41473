package starbloom

// GateKind identifies one of the two scroll gates.
type GateKind uint8

const (
	GateVoice GateKind = iota // holds the reader while narration plays
	GateEnd                   // holds the reader on the final section
)

func (k GateKind) String() string {
	switch k {
	case GateVoice:
		return "voice"
	case GateEnd:
		return "end"
	}
	return "unknown"
}

// Gate is the state of one directional scroll lock.
type Gate struct {
	Kind GateKind

	active     bool
	lockOffset float64
	// pinning is set while the gate's own corrective jump is in flight and
	// cleared on the next frame tick.
	pinning bool
}

// Active reports whether the gate is clamping.
func (g *Gate) Active() bool { return g.active }

// LockOffset returns the offset captured at activation.
func (g *Gate) LockOffset() float64 { return g.lockOffset }

// Pinning reports whether a corrective jump is pending its frame.
func (g *Gate) Pinning() bool { return g.pinning }

// GateController owns the voice gate and the end lock and enforces them on
// a Scroller. It runs on the engine's thread; callers route every scroll
// notification, input event, and frame tick through it.
type GateController struct {
	scroll  Scroller
	release float64
	anchor  func() float64

	voice Gate
	end   Gate

	endArmed    bool
	journey     bool
	touchStartY float64

	// notify is called after a gate activates or releases.
	notify func(g *Gate)
}

// NewGateController returns a controller for scroll. release is how far
// above the end lock the reader must scroll to unlock it. anchor, if not nil,
// supplies the end lock offset.
func NewGateController(scroll Scroller, release float64, anchor func() float64) *GateController {
	return &GateController{
		scroll:  scroll,
		release: release,
		anchor:  anchor,
		voice:   Gate{Kind: GateVoice},
		end:     Gate{Kind: GateEnd},
	}
}

// Voice returns the voice gate.
func (c *GateController) Voice() *Gate { return &c.voice }

// End returns the end lock.
func (c *GateController) End() *Gate { return &c.end }

// EndArmed reports whether the final section is visible enough to hold the
// end lock.
func (c *GateController) EndArmed() bool { return c.endArmed }

func (c *GateController) changed(g *Gate) {
	if c.notify != nil {
		c.notify(g)
	}
}

func (c *GateController) activate(g *Gate, lock float64) {
	g.lockOffset = lock
	if !g.active {
		g.active = true
		c.changed(g)
	}
}

func (c *GateController) deactivate(g *Gate) {
	if g.active {
		g.active = false
		c.changed(g)
	}
}

// ActivateVoice locks forward scrolling at the current offset. It is a no-op
// while the voice gate is already active; the original lock is kept.
func (c *GateController) ActivateVoice() {
	if c.voice.active {
		return
	}
	c.activate(&c.voice, c.scroll.ScrollOffset())
}

// ReleaseVoice unlocks the voice gate.
func (c *GateController) ReleaseVoice() {
	c.deactivate(&c.voice)
}

// StartJourney enables end lock clamping. If the final section is already
// armed the lock activates immediately.
func (c *GateController) StartJourney() {
	c.journey = true
	if c.endArmed {
		c.engageEnd()
	}
}

// SetEndVisibility feeds the visibility ratio of the final section. Crossing
// threshold upward arms the lock and captures its offset, pinning at once if
// the journey has started; dropping below disarms and releases it.
func (c *GateController) SetEndVisibility(ratio, threshold float64) {
	armed := ratio >= threshold
	switch {
	case armed && !c.endArmed:
		c.endArmed = true
		lock := c.scroll.ScrollOffset()
		if c.anchor != nil {
			lock = c.anchor()
		}
		c.end.lockOffset = lock
		if c.journey {
			c.engageEnd()
		}
	case !armed && c.endArmed:
		c.endArmed = false
		c.deactivate(&c.end)
	}
}

// engageEnd activates the armed end lock and pins to it, unless the reader
// already sits above its release band. The lock then engages once a scroll
// passes it.
func (c *GateController) engageEnd() {
	if c.scroll.ScrollOffset() < c.end.lockOffset-c.release {
		return
	}
	c.activate(&c.end, c.end.lockOffset)
	c.OnScroll()
}

// pin jumps back to g's lock offset. Repeated calls while already at the
// lock, or while a previous jump awaits its frame, do nothing.
func (c *GateController) pin(g *Gate) {
	if !g.active || g.pinning {
		return
	}
	if c.scroll.ScrollOffset() == g.lockOffset {
		return
	}
	g.pinning = true
	c.scroll.JumpTo(g.lockOffset)
}

// OnScroll reacts to a scroll position change.
func (c *GateController) OnScroll() {
	y := c.scroll.ScrollOffset()

	if c.voice.active && !c.voice.pinning && y > c.voice.lockOffset {
		c.pin(&c.voice)
	}

	if !c.journey || !c.endArmed || c.end.pinning {
		return
	}
	lock := c.end.lockOffset
	switch {
	case y < lock-c.release:
		c.deactivate(&c.end)
	case y > lock:
		c.activate(&c.end, lock)
		c.pin(&c.end)
	}
}

// HandleInput intercepts forward-scrolling input while a gate is active. It
// suppresses the event's default action, pins to the lock, and reports
// whether it did so.
func (c *GateController) HandleInput(ev *InputEvent) bool {
	forward := false
	switch ev.Kind {
	case InputTouchStart:
		c.touchStartY = ev.TouchY
		return false
	case InputTouchMove:
		forward = c.touchStartY-ev.TouchY > 0
	case InputWheel:
		forward = ev.DeltaY > 0
	case InputKey:
		forward = ev.Key.scrollsDown()
	}
	if !forward {
		return false
	}

	var g *Gate
	switch {
	case c.voice.active:
		g = &c.voice
	case c.end.active && c.journey:
		g = &c.end
	default:
		return false
	}
	ev.PreventDefault()
	c.pin(g)
	return true
}

// OnFrame clears pinning guards set during the previous frame and re-checks
// the offset, so a scroll that landed while a guard was up is still pinned.
func (c *GateController) OnFrame() {
	if !c.voice.pinning && !c.end.pinning {
		return
	}
	c.voice.pinning = false
	c.end.pinning = false
	c.OnScroll()
}
