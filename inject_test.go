package starbloom

import "testing"

func TestInjectTouch(t *testing.T) {
	s := newTestStory()
	s.InjectTouch(600, 400, 3)
	if len(s.injectQueue) != 3 {
		t.Fatalf("expected 3 queued events, got %d", len(s.injectQueue))
	}

	s.processInjectedInput()
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 remaining events after frame 1, got %d", len(s.injectQueue))
	}
	s.processInjectedInput()
	if got := s.Document().ScrollOffset(); got != 100 {
		t.Errorf("offset after first move = %v, want 100", got)
	}
	s.processInjectedInput()
	if got := s.Document().ScrollOffset(); got != 200 {
		t.Errorf("offset = %v, want 200", got)
	}
	if s.processInjectedInput() {
		t.Error("empty queue reported a consumed event")
	}
}

func TestInjectTouchMinimumFrames(t *testing.T) {
	s := newTestStory()
	s.InjectTouch(500, 300, 0)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(s.injectQueue))
	}
}

func TestInjectWheelRespectsVoiceGate(t *testing.T) {
	s := newTestStory()
	s.InjectScroll(1200)
	s.frame()
	s.Engine().Gates().ActivateVoice()

	s.InjectWheel(400)
	s.frame()
	for i := 0; i < 30; i++ {
		s.frame()
	}
	if got := s.Document().ScrollOffset(); got != 1200 {
		t.Errorf("offset = %v, want 1200", got)
	}

	s.InjectKey(KeyArrowUp)
	for i := 0; i < 30; i++ {
		s.frame()
	}
	if got := s.Document().ScrollOffset(); got != 1160 {
		t.Errorf("offset = %v, want 1160", got)
	}
}

func TestInjectScrollIsPinned(t *testing.T) {
	s := newTestStory()
	s.InjectScroll(1200)
	s.frame()
	s.Engine().Gates().ActivateVoice()

	s.InjectScroll(2400)
	s.frame()
	if got := s.Document().ScrollOffset(); got != 1200 {
		t.Errorf("offset = %v, want 1200", got)
	}
}
