package starbloom

import (
	"runtime"
	"time"
)

// MediaChannel is one host audio channel.
type MediaChannel interface {
	// Play starts or resumes playback. Hosts may reject it, for example
	// under autoplay restrictions.
	Play() error
	Pause()
	Paused() bool
	// Seek moves the playhead.
	Seek(pos time.Duration) error
	Volume() float64
	SetVolume(v float64)
	SetMuted(muted bool)
	Muted() bool
	// OnEnded registers the completion callback, replacing any previous one.
	// It fires on the engine's thread when a non-looping channel reaches its
	// end.
	OnEnded(fn func())
}

// Scroller reads and moves the scroll position of the story.
type Scroller interface {
	ScrollOffset() float64
	// JumpTo moves to offset without animation, canceling any smooth scroll.
	JumpTo(offset float64)
	ViewportHeight() float64
	// ScrollExtent is the total scrollable height including the viewport.
	ScrollExtent() float64
}

// Capabilities describes what the host provides. It is resolved once at
// startup; absent capabilities are nil or false and the engine degrades
// around them.
type Capabilities struct {
	Scroll Scroller
	Music  MediaChannel
	Voice  MediaChannel

	// Visibility reports that the host delivers section visibility signals.
	// Without it the end lock stays inactive and narration is always
	// allowed.
	Visibility bool

	// PauseMusicDuringNarration pauses music for the duration of narration
	// instead of relying on the duck volume, for platforms that cannot mix a
	// quiet channel under another.
	PauseMusicDuringNarration bool

	// EndAnchor returns the offset that centres the final section. When nil
	// the end lock captures the current offset at activation.
	EndAnchor func() float64

	// Sink receives engine lifecycle events. Optional.
	Sink EventSink
}

// DetectCapabilities returns the platform-dependent flags for this build.
// Channels and the scroller are left for the host to fill in.
func DetectCapabilities() Capabilities {
	return Capabilities{
		Visibility:                true,
		PauseMusicDuringNarration: runtime.GOOS == "ios" || runtime.GOOS == "js",
	}
}
