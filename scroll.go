package starbloom

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default scroll amounts and animation times for unprevented input.
const (
	arrowScrollStep  = 40
	pageScrollFactor = 0.9

	wheelScrollDuration = 120 * time.Millisecond
	keyScrollDuration   = 180 * time.Millisecond
	pageScrollDuration  = 320 * time.Millisecond
	jumpScrollDuration  = 450 * time.Millisecond
)

// Section is one full-width block of the story.
type Section struct {
	Name   string
	Height float64
	// Scene is the backdrop shown while this section dominates the viewport.
	Scene Scene
	// Narration marks the section that offers the narration track.
	Narration bool
	// End marks the final section held by the end lock.
	End bool
}

type scrollAnim struct {
	tween  *gween.Tween
	target float64
}

type scrollListener struct {
	id uint32
	fn func()
}

type observer struct {
	id         uint32
	section    int
	thresholds []float64
	fn         func(ratio float64)
	bucket     int
}

// Document is an in-memory scrollable story: a vertical stack of sections
// viewed through a viewport. It implements Scroller and reports scroll and
// visibility changes to registered callbacks.
type Document struct {
	sections []Section
	tops     []float64
	extent   float64
	viewport float64
	offset   float64

	anim      *scrollAnim
	touchY    float64
	listeners []scrollListener
	observers []*observer
	nextID    uint32
}

// NewDocument lays out sections top to bottom under a viewport of the given
// height.
func NewDocument(viewport float64, sections ...Section) *Document {
	d := &Document{sections: append([]Section(nil), sections...)}
	d.tops = make([]float64, len(d.sections))
	y := 0.0
	for i, s := range d.sections {
		d.tops[i] = y
		y += math.Max(0, s.Height)
	}
	d.extent = y
	d.viewport = math.Max(minViewport, viewport)
	return d
}

// Sections returns the document's sections.
func (d *Document) Sections() []Section { return d.sections }

// SectionIndex returns the index of the first section called name, or -1.
func (d *Document) SectionIndex(name string) int {
	for i, s := range d.sections {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (d *Document) ScrollOffset() float64 { return d.offset }

func (d *Document) ViewportHeight() float64 { return d.viewport }

// ScrollExtent returns the total content height, never less than the
// viewport.
func (d *Document) ScrollExtent() float64 { return math.Max(d.extent, d.viewport) }

// MaxOffset returns the largest reachable offset.
func (d *Document) MaxOffset() float64 { return math.Max(0, d.extent-d.viewport) }

func (d *Document) clamp(y float64) float64 {
	return math.Max(0, math.Min(d.MaxOffset(), y))
}

// JumpTo moves to y immediately and cancels any smooth scroll.
func (d *Document) JumpTo(y float64) {
	d.anim = nil
	d.setOffset(y)
}

// ScrollTo animates to y over duration. A non-positive duration jumps.
func (d *Document) ScrollTo(y float64, duration time.Duration) {
	y = d.clamp(y)
	if duration <= 0 {
		d.JumpTo(y)
		return
	}
	d.anim = &scrollAnim{
		tween:  gween.New(float32(d.offset), float32(y), float32(duration.Seconds()), ease.OutCubic),
		target: y,
	}
}

// ScrollBy animates by delta from the pending target, so repeated calls
// accumulate.
func (d *Document) ScrollBy(delta float64, duration time.Duration) {
	from := d.offset
	if d.anim != nil {
		from = d.anim.target
	}
	d.ScrollTo(from+delta, duration)
}

// Scrolling reports whether a smooth scroll is in flight.
func (d *Document) Scrolling() bool { return d.anim != nil }

// Update advances any smooth scroll by dt.
func (d *Document) Update(dt time.Duration) {
	a := d.anim
	if a == nil || dt <= 0 {
		return
	}
	val, done := a.tween.Update(float32(dt.Seconds()))
	if done {
		d.anim = nil
		d.setOffset(a.target)
		return
	}
	d.setOffset(float64(val))
}

// SetViewportHeight resizes the viewport and re-clamps the offset.
func (d *Document) SetViewportHeight(h float64) {
	d.viewport = math.Max(minViewport, h)
	if c := d.clamp(d.offset); c != d.offset {
		d.offset = c
		d.fireScroll()
	}
	d.checkObservers()
}

func (d *Document) setOffset(y float64) {
	y = d.clamp(y)
	if y == d.offset {
		return
	}
	d.offset = y
	d.fireScroll()
	d.checkObservers()
}

// OnScroll registers fn to run after every offset change. fn reads the
// offset itself; it may move the document, which re-enters listeners.
func (d *Document) OnScroll(fn func()) CallbackHandle {
	d.nextID++
	d.listeners = append(d.listeners, scrollListener{id: d.nextID, fn: fn})
	return CallbackHandle{id: d.nextID, doc: d}
}

func (d *Document) fireScroll() {
	for i := 0; i < len(d.listeners); i++ {
		d.listeners[i].fn()
	}
}

// Observe calls fn with the visible ratio of section whenever that ratio
// crosses one of thresholds, and once immediately.
func (d *Document) Observe(section int, thresholds []float64, fn func(ratio float64)) CallbackHandle {
	d.nextID++
	o := &observer{id: d.nextID, section: section, thresholds: append([]float64(nil), thresholds...), fn: fn}
	d.observers = append(d.observers, o)
	ratio := d.VisibleRatio(section)
	o.bucket = o.bucketFor(ratio)
	fn(ratio)
	return CallbackHandle{id: d.nextID, doc: d}
}

func (o *observer) bucketFor(ratio float64) int {
	if ratio <= 0 {
		return 0
	}
	n := 0
	for _, t := range o.thresholds {
		if ratio >= t {
			n++
		}
	}
	return n
}

func (d *Document) checkObservers() {
	for i := 0; i < len(d.observers); i++ {
		o := d.observers[i]
		ratio := d.VisibleRatio(o.section)
		if b := o.bucketFor(ratio); b != o.bucket {
			o.bucket = b
			o.fn(ratio)
		}
	}
}

// CallbackHandle removes a registered scroll listener or observer.
type CallbackHandle struct {
	id  uint32
	doc *Document
}

// Remove unregisters the callback.
func (h CallbackHandle) Remove() {
	if h.doc == nil {
		return
	}
	for i := range h.doc.listeners {
		if h.doc.listeners[i].id == h.id {
			h.doc.listeners = append(h.doc.listeners[:i], h.doc.listeners[i+1:]...)
			return
		}
	}
	for i := range h.doc.observers {
		if h.doc.observers[i].id == h.id {
			h.doc.observers = append(h.doc.observers[:i], h.doc.observers[i+1:]...)
			return
		}
	}
}

// VisibleRatio returns the fraction of section i inside the viewport.
func (d *Document) VisibleRatio(i int) float64 {
	if i < 0 || i >= len(d.sections) {
		return 0
	}
	h := d.sections[i].Height
	if h <= 0 {
		return 0
	}
	top, bottom := d.tops[i], d.tops[i]+h
	visible := math.Min(bottom, d.offset+d.viewport) - math.Max(top, d.offset)
	return clamp01(visible / h)
}

// Progress returns the reading progress in [0, 1].
func (d *Document) Progress() float64 {
	max := d.MaxOffset()
	if max <= 0 {
		return 0
	}
	return clamp01(d.offset / max)
}

// DominantSection returns the index of the section under the viewport's
// vertical centre, or -1 for an empty document.
func (d *Document) DominantSection() int {
	if len(d.sections) == 0 {
		return -1
	}
	centre := d.offset + d.viewport/2
	for i := len(d.sections) - 1; i >= 0; i-- {
		if centre >= d.tops[i] {
			return i
		}
	}
	return 0
}

// CenterOffset returns the offset that centres section i in the viewport,
// clamped to the reachable range.
func (d *Document) CenterOffset(i int) float64 {
	if i < 0 || i >= len(d.sections) {
		return d.offset
	}
	return d.clamp(d.tops[i] + d.sections[i].Height/2 - d.viewport/2)
}

// ApplyDefault performs the default scroll action of an input event that no
// handler prevented.
func (d *Document) ApplyDefault(ev *InputEvent) {
	if ev.Kind == InputTouchStart || ev.Kind == InputTouchMove {
		d.applyTouch(ev)
		return
	}
	if ev.Prevented() {
		return
	}
	switch ev.Kind {
	case InputWheel:
		d.ScrollBy(ev.DeltaY, wheelScrollDuration)
	case InputKey:
		page := d.viewport * pageScrollFactor
		switch ev.Key {
		case KeyArrowDown:
			d.ScrollBy(arrowScrollStep, keyScrollDuration)
		case KeyArrowUp:
			d.ScrollBy(-arrowScrollStep, keyScrollDuration)
		case KeyPageDown, KeySpace:
			d.ScrollBy(page, pageScrollDuration)
		case KeyPageUp:
			d.ScrollBy(-page, pageScrollDuration)
		case KeyEnd:
			d.ScrollTo(d.MaxOffset(), jumpScrollDuration)
		case KeyHome:
			d.ScrollTo(0, jumpScrollDuration)
		}
	}
}

// applyTouch follows the finger even while its moves are prevented, so a
// gesture resumed after a release scrolls only by its new movement.
func (d *Document) applyTouch(ev *InputEvent) {
	last := d.touchY
	d.touchY = ev.TouchY
	if ev.Kind != InputTouchMove || ev.Prevented() {
		return
	}
	d.anim = nil
	d.setOffset(d.offset + last - ev.TouchY)
}
