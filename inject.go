package starbloom

// injected is one queued synthetic input. Exactly one field is set.
type injected struct {
	event  *InputEvent
	scroll *float64
}

// InjectWheel queues a wheel event. Positive deltaY scrolls down. The event
// is consumed on the next frame in place of real input.
func (s *Story) InjectWheel(deltaY float64) {
	s.injectQueue = append(s.injectQueue, injected{event: WheelEvent(deltaY)})
}

// InjectKey queues a key press.
func (s *Story) InjectKey(k Key) {
	s.injectQueue = append(s.injectQueue, injected{event: KeyEvent(k)})
}

// InjectTouch queues a single-finger drag from fromY to toY: a touch start
// followed by frames-1 linearly interpolated moves. Minimum frames is 2.
func (s *Story) InjectTouch(fromY, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.injectQueue = append(s.injectQueue, injected{event: TouchStartEvent(fromY)})
	steps := frames - 1
	for i := 1; i <= steps; i++ {
		y := fromY + (toY-fromY)*float64(i)/float64(steps)
		s.injectQueue = append(s.injectQueue, injected{event: TouchMoveEvent(y)})
	}
}

// InjectScroll queues a programmatic jump to offset y, as a script or an
// anchor link would perform. Gates see it only through the scroll listener.
func (s *Story) InjectScroll(y float64) {
	s.injectQueue = append(s.injectQueue, injected{scroll: &y})
}

// processInjectedInput pops one queued input and applies it. Returns true if
// an input was consumed (real input should be skipped).
func (s *Story) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	in := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	if in.scroll != nil {
		s.doc.JumpTo(*in.scroll)
		return true
	}
	s.dispatch(in.event)
	return true
}
