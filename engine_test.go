package starbloom

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

const tickStep = 10 * time.Millisecond

type engineRig struct {
	e      *Engine
	doc    *Document
	music  *fakeChannel
	voice  *fakeChannel
	log    bytes.Buffer
	events []Event
	now    time.Duration
}

func newEngineRig(visibility bool) *engineRig {
	r := &engineRig{
		doc:   newStoryDocument(),
		music: newFakeChannel(1),
		voice: newFakeChannel(1),
	}
	cfg := DefaultConfig()
	cfg.LogOutput = &r.log
	end := r.doc.SectionIndex("end")
	caps := Capabilities{
		Scroll:     r.doc,
		Music:      r.music,
		Voice:      r.voice,
		Visibility: visibility,
		EndAnchor:  func() float64 { return r.doc.CenterOffset(end) },
		Sink:       EventFunc(func(ev Event) { r.events = append(r.events, ev) }),
	}
	r.e = New(cfg, caps)
	r.e.Initialize(cfg.Seed, Size{Width: 1000, Height: 800})

	r.doc.OnScroll(r.e.HandleScroll)
	r.doc.Observe(r.doc.SectionIndex("voice"), []float64{0, cfg.VisibilityThreshold}, func(ratio float64) {
		r.e.OnNarrationSectionVisibilityChange(ratio >= cfg.VisibilityThreshold)
	})
	r.doc.Observe(end, []float64{cfg.VisibilityThreshold}, r.e.OnEndSectionVisibility)
	r.e.OnFrameTick(0, Vec2{0.5, 0.5}, 0)
	return r
}

func (r *engineRig) tick(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += tickStep {
		r.now += tickStep
		r.doc.Update(tickStep)
		r.e.OnFrameTick(r.doc.Progress(), Vec2{0.5, 0.5}, r.now)
	}
}

func (r *engineRig) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func TestEngineJourneyFadesMusicIn(t *testing.T) {
	r := newEngineRig(true)
	r.e.StartJourney()
	if r.music.paused || r.music.volume != 0 {
		t.Fatalf("paused = %v volume = %v, want playing from 0", r.music.paused, r.music.volume)
	}
	r.tick(600 * time.Millisecond)
	if r.music.volume <= 0 || r.music.volume >= 0.35 {
		t.Errorf("volume = %v mid fade", r.music.volume)
	}
	r.tick(600 * time.Millisecond)
	if r.music.volume != 0.35 {
		t.Errorf("volume = %v, want 0.35", r.music.volume)
	}
	if !r.e.JourneyStarted() || r.count(EventJourneyStarted) != 1 {
		t.Error("journey not reported")
	}

	r.e.StartJourney()
	if r.music.plays != 1 {
		t.Errorf("music plays = %d, want 1", r.music.plays)
	}
}

func TestEngineNarrationScenario(t *testing.T) {
	r := newEngineRig(true)
	r.e.StartJourney()
	r.tick(1200 * time.Millisecond)

	if err := r.e.TriggerNarration(); !errors.Is(err, ErrNarrationUnavailable) {
		t.Fatalf("err = %v, want ErrNarrationUnavailable", err)
	}

	r.doc.JumpTo(2000)
	if err := r.e.TriggerNarration(); err != nil {
		t.Fatal(err)
	}
	r.tick(650 * time.Millisecond)
	if r.music.volume != 0.01 {
		t.Errorf("ducked volume = %v, want 0.01", r.music.volume)
	}
	if r.voice.paused {
		t.Error("voice not playing")
	}

	ev := WheelEvent(200)
	if !r.e.HandleInput(ev) || !ev.Prevented() {
		t.Error("forward wheel not blocked during narration")
	}
	r.doc.ApplyDefault(ev)
	r.doc.JumpTo(2600)
	r.tick(tickStep)
	if got := r.doc.ScrollOffset(); got != 2000 {
		t.Errorf("offset = %v, want 2000", got)
	}

	r.voice.finish()
	r.tick(900 * time.Millisecond)
	if r.music.volume != 0.35 {
		t.Errorf("restored volume = %v, want 0.35", r.music.volume)
	}
	if r.e.Gates().Voice().Active() {
		t.Error("voice gate active after narration")
	}
	if r.e.Ducker().State() != DuckIdle {
		t.Errorf("state = %v, want idle", r.e.Ducker().State())
	}

	var sequence []EventType
	for _, ev := range r.events {
		switch ev.Type {
		case EventGateActivated, EventGateReleased:
			if ev.Gate == GateVoice {
				sequence = append(sequence, ev.Type)
			}
		case EventNarrationStarted, EventNarrationEnded:
			sequence = append(sequence, ev.Type)
		}
	}
	want := []EventType{EventGateActivated, EventNarrationStarted, EventNarrationEnded, EventGateReleased}
	if len(sequence) != len(want) {
		t.Fatalf("sequence = %v, want %v", sequence, want)
	}
	for i := range want {
		if sequence[i] != want[i] {
			t.Errorf("sequence[%d] = %v, want %v", i, sequence[i], want[i])
		}
	}
}

func TestEngineLeavingSectionCancels(t *testing.T) {
	r := newEngineRig(true)
	r.e.StartJourney()
	r.tick(1200 * time.Millisecond)
	r.doc.JumpTo(2000)
	r.e.TriggerNarration()
	r.tick(800 * time.Millisecond)

	r.doc.JumpTo(200)
	if r.e.Gates().Voice().Active() {
		t.Error("voice gate active after leaving the section")
	}
	if !r.voice.paused || r.voice.pos != 0 {
		t.Error("voice not stopped and rewound")
	}
	if r.music.volume != 0.35 {
		t.Errorf("volume = %v, want 0.35", r.music.volume)
	}
	if r.count(EventNarrationCanceled) != 1 {
		t.Errorf("canceled events = %d, want 1", r.count(EventNarrationCanceled))
	}
	if err := r.e.TriggerNarration(); !errors.Is(err, ErrNarrationUnavailable) {
		t.Errorf("err = %v, want ErrNarrationUnavailable", err)
	}
}

func TestEngineEndLock(t *testing.T) {
	r := newEngineRig(true)
	r.doc.JumpTo(4200)
	if r.e.Gates().End().Active() {
		t.Fatal("end lock active before the journey")
	}

	r.e.StartJourney()
	if !r.e.Gates().End().Active() {
		t.Fatal("end lock inactive after the journey started")
	}
	if got := r.doc.ScrollOffset(); got != 4100 {
		t.Errorf("offset = %v, want 4100", got)
	}
	r.tick(tickStep)

	ev := KeyEvent(KeyEnd)
	if !r.e.HandleInput(ev) {
		t.Error("End key not blocked by the end lock")
	}

	r.doc.JumpTo(3000)
	if r.e.Gates().End().Active() {
		t.Error("end lock held after scrolling back up")
	}
}

func TestEngineWithoutVisibility(t *testing.T) {
	r := newEngineRig(false)
	r.e.StartJourney()
	r.doc.JumpTo(4200)
	if r.e.Gates().EndArmed() {
		t.Error("end lock armed without visibility signals")
	}
	r.doc.JumpTo(0)
	if err := r.e.TriggerNarration(); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}

func TestEngineMediaFailureLogged(t *testing.T) {
	r := newEngineRig(true)
	r.voice.playErr = errors.New("autoplay blocked")
	r.e.StartJourney()
	r.tick(1200 * time.Millisecond)
	r.doc.JumpTo(2000)
	r.e.TriggerNarration()
	r.tick(650 * time.Millisecond)

	if !strings.Contains(r.log.String(), "[starbloom] narration failed: autoplay blocked") {
		t.Errorf("log = %q", r.log.String())
	}
	if r.e.Gates().Voice().Active() {
		t.Error("voice gate held after failure")
	}
	r.tick(500 * time.Millisecond)
	if r.music.volume != 0.35 {
		t.Errorf("volume = %v, want 0.35", r.music.volume)
	}
}

func TestEngineMusicRejected(t *testing.T) {
	r := newEngineRig(true)
	r.music.playErr = errors.New("no output device")
	r.e.StartJourney()
	if r.count(EventMediaError) != 1 {
		t.Errorf("media errors = %d, want 1", r.count(EventMediaError))
	}
	if r.music.volume != 0 {
		t.Errorf("volume = %v, want 0", r.music.volume)
	}
}

func TestEngineSceneChanges(t *testing.T) {
	r := newEngineRig(true)
	if err := r.e.SetActiveSceneName("sakura"); err != nil {
		t.Fatal(err)
	}
	r.e.SetActiveSceneName("sakura")
	if r.count(EventSceneChanged) != 1 {
		t.Errorf("scene events = %d, want 1", r.count(EventSceneChanged))
	}
	if err := r.e.SetActiveSceneName("ocean"); err == nil {
		t.Error("unknown scene accepted")
	}
	if got := r.e.Compositor().ActiveScene(); got != SceneSakura {
		t.Errorf("ActiveScene = %v, want sakura", got)
	}
	r.tick(2 * time.Second)
	if w := r.e.Compositor().Weights()[SceneSakura]; w <= 0.5 {
		t.Errorf("sakura weight = %v after 2s", w)
	}
	if r.e.Stats().Weights != r.e.Compositor().Weights() {
		t.Error("stats weights out of date")
	}
}

func TestEngineToggleMute(t *testing.T) {
	r := newEngineRig(true)
	if !r.e.ToggleMute() || !r.music.muted {
		t.Error("first toggle did not mute")
	}
	if r.e.ToggleMute() || r.music.muted {
		t.Error("second toggle did not unmute")
	}
}

func TestEngineWithoutHost(t *testing.T) {
	e := New(DefaultConfig(), Capabilities{})
	e.OnFrameTick(0, Vec2{}, 0)
	e.Draw(&recordingSurface{})
	e.SetActiveScene(SceneHeart)
	e.OnResize(Size{Width: 10, Height: 10})
	if e.HandleInput(WheelEvent(10)) {
		t.Error("input intercepted without a scroller")
	}
	e.HandleScroll()
	e.StartJourney()
	if e.ToggleMute() {
		t.Error("ToggleMute = true without music")
	}
	if err := e.TriggerNarration(); !errors.Is(err, ErrNoVoice) {
		t.Errorf("err = %v, want ErrNoVoice", err)
	}
}

func TestEngineDeviceScale(t *testing.T) {
	e := New(DefaultConfig(), Capabilities{})
	tests := []struct{ in, want float64 }{
		{0.5, 1},
		{1, 1},
		{1.5, 1.5},
		{3, 2},
	}
	for _, tt := range tests {
		if got := e.DeviceScale(tt.in); got != tt.want {
			t.Errorf("DeviceScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEngineEventsCarryClock(t *testing.T) {
	r := newEngineRig(true)
	r.tick(100 * time.Millisecond)
	r.e.StartJourney()
	if got := r.events[len(r.events)-1].At; got != 100*time.Millisecond {
		t.Errorf("At = %v, want 100ms", got)
	}
}
