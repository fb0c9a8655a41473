package starbloom

import (
	"encoding/json"
	"fmt"
)

// scriptStep is one line of a story script. Only the fields its action uses
// are read.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Y      float64 `json:"y,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Key    string  `json:"key,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	// expect
	Scene  string `json:"scene,omitempty"`
	Gate   string `json:"gate,omitempty"`
	Active *bool  `json:"active,omitempty"`
	Duck   string `json:"duck,omitempty"`
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "journey", "narrate", "mute", "wheel", "touch", "scroll", "wait", "screenshot":
	case "key":
		if ParseKey(st.Key) == KeyOther {
			return fmt.Errorf("unknown key %q", st.Key)
		}
	case "expect":
		if st.Scene != "" {
			if _, ok := ParseScene(st.Scene); !ok {
				return fmt.Errorf("unknown scene %q", st.Scene)
			}
		}
		if st.Gate != "" && st.Gate != "voice" && st.Gate != "end" {
			return fmt.Errorf("unknown gate %q", st.Gate)
		}
		if (st.Gate == "") != (st.Active == nil) {
			return fmt.Errorf("gate and active go together")
		}
		if st.Scene == "" && st.Gate == "" && st.Duck == "" {
			return fmt.Errorf("expect checks nothing")
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// TestRunner plays a story script one step per frame: input, narration,
// journey and mute actions, waits, screenshots, and state expectations.
// Attach it with Story.SetTestRunner.
type TestRunner struct {
	steps    []scriptStep
	next     int
	wait     int
	done     bool
	failures []string
}

// LoadTestScript parses a JSON story script of the form {"steps": [...]}.
//
// Actions: journey, narrate, mute, wheel (deltaY), key (key, DOM name),
// touch (fromY, toY, frames), scroll (y), wait (frames), screenshot (label),
// expect (scene; gate + active; duck).
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("story script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("story script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("story script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner; Update advances it once per frame.
func (s *Story) SetTestRunner(runner *TestRunner) {
	s.runner = runner
}

// Done reports whether every step has run and injected input has drained.
func (r *TestRunner) Done() bool { return r.done }

// Failures returns the mismatches recorded by expect steps, in order.
func (r *TestRunner) Failures() []string { return r.failures }

func (r *TestRunner) step(s *Story) {
	if r.done || len(s.injectQueue) > 0 {
		return
	}
	if r.wait > 0 {
		r.wait--
		return
	}
	if r.next < len(r.steps) {
		st := r.steps[r.next]
		r.next++
		r.run(s, st)
	}
	if r.next >= len(r.steps) && r.wait == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

func (r *TestRunner) run(s *Story, st scriptStep) {
	switch st.Action {
	case "journey":
		s.engine.StartJourney()
	case "narrate":
		if err := s.engine.TriggerNarration(); err != nil {
			s.log.logf("script: narrate: %v", err)
		}
	case "mute":
		s.engine.ToggleMute()
	case "wheel":
		s.InjectWheel(st.DeltaY)
	case "key":
		s.InjectKey(ParseKey(st.Key))
	case "touch":
		s.InjectTouch(st.FromY, st.ToY, st.Frames)
	case "scroll":
		s.InjectScroll(st.Y)
	case "wait":
		// the current frame is the first one waited
		r.wait = max(st.Frames-1, 0)
	case "screenshot":
		s.Screenshot(st.Label)
	case "expect":
		r.expect(s, st)
	}
}

func (r *TestRunner) expect(s *Story, st scriptStep) {
	at := r.next - 1
	if st.Scene != "" {
		if got := s.engine.Compositor().ActiveScene().String(); got != st.Scene {
			r.fail(s, "step %d: scene = %s, want %s", at, got, st.Scene)
		}
	}
	if st.Gate != "" {
		var got bool
		if g := s.engine.Gates(); g != nil {
			if st.Gate == "voice" {
				got = g.Voice().Active()
			} else {
				got = g.End().Active()
			}
		}
		if got != *st.Active {
			r.fail(s, "step %d: %s gate active = %v, want %v", at, st.Gate, got, *st.Active)
		}
	}
	if st.Duck != "" {
		if got := s.engine.Ducker().State().String(); got != st.Duck {
			r.fail(s, "step %d: duck = %s, want %s", at, got, st.Duck)
		}
	}
}

func (r *TestRunner) fail(s *Story, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.failures = append(r.failures, msg)
	s.log.logf("script: %s", msg)
}
