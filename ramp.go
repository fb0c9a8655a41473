package starbloom

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Smoothstep is the t² (3 − 2t) ease in gween's TweenFunc form.
var Smoothstep ease.TweenFunc = func(t, b, c, d float32) float32 {
	if d <= 0 {
		return b + c
	}
	p := t / d
	return b + c*p*p*(3-2*p)
}

// Ramp is one in-flight volume interpolation on a channel. There is no global
// ramp manager; each channel's Ramper owns at most one live Ramp.
type Ramp struct {
	From, To float64
	Duration time.Duration
	Elapsed  time.Duration

	tween    *gween.Tween
	onDone   func()
	canceled bool
}

// Canceled reports whether the ramp was superseded or canceled.
func (r *Ramp) Canceled() bool { return r.canceled }

// Ramper drives the volume of one MediaChannel. Starting a ramp cancels and
// supersedes the one in flight, so the channel never has two.
type Ramper struct {
	channel MediaChannel
	active  *Ramp
}

// NewRamper returns a Ramper for ch.
func NewRamper(ch MediaChannel) *Ramper {
	return &Ramper{channel: ch}
}

// Start cancels any live ramp and begins moving the channel's current volume
// toward target over d with the smoothstep ease. onDone runs once, from
// Update, when the ramp completes; it never runs for a canceled ramp. A
// non-positive d applies target immediately and runs onDone before
// returning.
func (r *Ramper) Start(target float64, d time.Duration, onDone func()) *Ramp {
	r.Cancel()
	target = clamp01(target)
	from := clamp01(r.channel.Volume())
	ramp := &Ramp{From: from, To: target, Duration: d, onDone: onDone}
	if d <= 0 {
		r.channel.SetVolume(target)
		if onDone != nil {
			onDone()
		}
		return ramp
	}
	ramp.tween = gween.New(float32(from), float32(target), float32(d.Seconds()), Smoothstep)
	r.active = ramp
	return ramp
}

// Cancel stops the live ramp, leaving the volume where it is.
func (r *Ramper) Cancel() {
	if r.active != nil {
		r.active.canceled = true
		r.active = nil
	}
}

// Active returns the live ramp, or nil.
func (r *Ramper) Active() *Ramp { return r.active }

// Update advances the live ramp by dt and writes the eased volume to the
// channel. The final step writes the exact target.
func (r *Ramper) Update(dt time.Duration) {
	ramp := r.active
	if ramp == nil || dt <= 0 {
		return
	}
	ramp.Elapsed += dt
	val, done := ramp.tween.Update(float32(dt.Seconds()))
	if !done && ramp.Elapsed < ramp.Duration {
		r.channel.SetVolume(clamp01(float64(val)))
		return
	}
	r.channel.SetVolume(ramp.To)
	r.active = nil
	if ramp.onDone != nil {
		ramp.onDone()
	}
}
