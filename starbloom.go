package starbloom

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// RGBA returns a Color from 8-bit channel values and a [0, 1] alpha.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, a}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Transparent is fully transparent black, the usual outer gradient stop.
var Transparent = Color{}

// Vec2 is a 2D vector used for positions, offsets, and directions.
type Vec2 struct {
	X, Y float64
}

// Size is a viewport size in logical (CSS-like) pixels.
type Size struct {
	Width, Height float64
}

// minViewport is the smallest dimension accepted anywhere a viewport is
// consumed. Zero and negative sizes are clamped to it.
const minViewport = 1

// clamped returns s with both dimensions raised to minViewport.
func (s Size) clamped() Size {
	if !(s.Width >= minViewport) {
		s.Width = minViewport
	}
	if !(s.Height >= minViewport) {
		s.Height = minViewport
	}
	return s
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a value in [Min, Max) drawn from r.
func (rg Range) Random(r *Rand) float64 {
	if rg.Min == rg.Max {
		return rg.Min
	}
	return rg.Min + r.Float64()*(rg.Max-rg.Min)
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) {
		return 0
	}
	return math.Min(1, math.Max(0, t))
}

// smoothstep is the cubic ease t^2 (3 - 2t) over [0, 1].
func smoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// window maps p into [0, 1] across [a, b].
func window(p, a, b float64) float64 {
	return clamp01((p - a) / (b - a))
}

// Scene identifies one of the four composited visual states.
type Scene uint8

const (
	SceneStars  Scene = iota // night sky with twinkling stars and shooting stars
	SceneSakura              // procedural cherry blossom forest
	SceneFlower              // drifting petals over a warm sky
	SceneHeart               // pulsing heart
	sceneCount
)

var sceneNames = [sceneCount]string{"stars", "sakura", "flower", "heart"}

// String returns the lowercase scene name.
func (s Scene) String() string {
	if s < sceneCount {
		return sceneNames[s]
	}
	return "unknown"
}

// ParseScene returns the Scene with the given name.
func ParseScene(name string) (Scene, bool) {
	for i, n := range sceneNames {
		if n == name {
			return Scene(i), true
		}
	}
	return 0, false
}
