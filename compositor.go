package starbloom

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// drawEpsilon is the weight under which a layer is skipped entirely.
const drawEpsilon = 0.001

var (
	nightTop     = RGBA(4, 8, 26, 1)
	nightBottom  = RGBA(2, 4, 22, 1)
	warmTop      = RGBA(30, 30, 40, 1)
	warmBottom   = RGBA(54, 28, 40, 1)
	centreGlow   = RGBA(255, 255, 255, 0.12)
	vignetteEdge = RGBA(0, 0, 0, 0.55)
)

// Compositor owns everything painted per frame: scene weights, the forest
// cache, the shooting-star pool, the starfield, and the petal ensemble.
type Compositor struct {
	blender  *Blender
	forest   forestCache
	shooters *ShooterPool
	stars    []Star
	petals   []Petal

	spring     harmonica.Spring
	pointer    Vec2 // smoothed, normalised
	pointerVel Vec2

	size     Size
	progress float64
	weights  SceneWeights
	tMS      float64
	last     time.Duration
	ticked   bool

	// Scratch reused across draw calls.
	stops [4]ColorStop
	path  Path
}

// NewCompositor creates a compositor for the given viewport. All procedural
// content is seeded from cfg.Seed.
func NewCompositor(cfg Config, size Size) *Compositor {
	rng := NewRand(cfg.Seed)
	c := &Compositor{
		blender: NewBlender(SceneStars, cfg.BlendRate, cfg.SnapEpsilon),
		forest:  forestCache{seed: cfg.Seed},
		stars:   newStars(rng),
		petals:  newPetals(rng),
		spring:  harmonica.NewSpring(harmonica.FPS(60), cfg.ParallaxFrequency, cfg.ParallaxDamping),
		pointer: Vec2{0.5, 0.5},
	}
	c.shooters = NewShooterPool(cfg.Shooters, rng)
	c.Resize(size)
	return c
}

// Resize discards cached forest geometry; it is rebuilt on the next draw.
func (c *Compositor) Resize(size Size) {
	c.size = size.clamped()
	c.forest.invalidate(c.size)
}

// Size returns the current logical viewport.
func (c *Compositor) Size() Size { return c.size }

// SetActiveScene changes the blend target. Returns true if it changed.
func (c *Compositor) SetActiveScene(s Scene) bool {
	return c.blender.SetActive(s)
}

// ActiveScene returns the current blend target.
func (c *Compositor) ActiveScene() Scene { return c.blender.Active() }

// Weights returns the weights computed by the last Tick.
func (c *Compositor) Weights() SceneWeights { return c.weights }

// Pointer returns the smoothed pointer position.
func (c *Compositor) Pointer() Vec2 { return c.pointer }

// Shooters returns the shooting-star pool.
func (c *Compositor) Shooters() *ShooterPool { return c.shooters }

// Forest returns the forest geometry for the current viewport, building it if
// needed.
func (c *Compositor) Forest() []ForestLayer { return c.forest.get() }

// ForestBuilds returns how many times the forest has been generated.
func (c *Compositor) ForestBuilds() int { return c.forest.builds }

// Tick advances the compositor to now. progress is the reading progress in
// [0, 1] and pointer the raw normalised pointer position.
func (c *Compositor) Tick(progress float64, pointer Vec2, now time.Duration) {
	dt := 0.0
	if c.ticked {
		dt = (now - c.last).Seconds()
		if dt < 0 {
			dt = 0
		}
	}
	c.last = now
	c.ticked = true
	c.tMS = float64(now) / float64(time.Millisecond)
	c.progress = clamp01(progress)

	c.weights = c.blender.Step()

	c.pointer.X, c.pointerVel.X = c.spring.Update(c.pointer.X, c.pointerVel.X, clamp01(pointer.X))
	c.pointer.Y, c.pointerVel.Y = c.spring.Update(c.pointer.Y, c.pointerVel.Y, clamp01(pointer.Y))

	if w := c.weights[SceneStars]; w > drawEpsilon {
		c.shooters.Update(dt, w)
	}
}

// glowAmount is the centre glow strength for a reading progress.
func glowAmount(p float64) float64 {
	return smoothstep(window(p, 0.18, 0.35)) * (1 - smoothstep(window(p, 0.45, 0.55)))
}

func lerpColor(a, b Color, t float64) Color {
	return Color{lerp(a.R, b.R, t), lerp(a.G, b.G, t), lerp(a.B, b.B, t), lerp(a.A, b.A, t)}
}

// Draw paints one frame back to front onto s.
func (c *Compositor) Draw(s Surface) {
	W, H := c.size.Width, c.size.Height
	full := Rect{0, 0, W, H}
	w := c.weights
	minSide := math.Min(W, H)

	mix := math.Min(1, w[SceneFlower]+w[SceneHeart])
	c.stops[0] = ColorStop{0, lerpColor(nightTop, warmTop, mix)}
	c.stops[1] = ColorStop{1, lerpColor(nightBottom, warmBottom, mix)}
	s.FillLinearGradient(full, Vec2{0, 0}, Vec2{0, H}, c.stops[:2])

	if stars := w[SceneStars]; stars > drawEpsilon {
		c.drawStars(s, stars)
		c.drawShooters(s)
	}

	if glow := glowAmount(c.progress); glow > drawEpsilon {
		center := Vec2{lerp(W*0.48, W*0.52, c.pointer.X), lerp(H*0.45, H*0.55, c.pointer.Y)}
		c.stops[0] = ColorStop{0, centreGlow.WithAlpha(glow)}
		c.stops[1] = ColorStop{1, Transparent}
		s.FillRadialGradient(full, center, 0, minSide*0.55, c.stops[:2], false)
	}

	if sakura := w[SceneSakura]; sakura > drawEpsilon {
		c.drawSakura(s, sakura)
	}
	if petals := math.Max(w[SceneSakura], w[SceneFlower]); petals > drawEpsilon {
		c.drawPetals(s, petals)
	}
	if flower := w[SceneFlower]; flower > drawEpsilon {
		c.drawSparks(s, flower)
	}
	if heart := w[SceneHeart]; heart > drawEpsilon {
		c.drawHeart(s, heart)
	}

	c.stops[0] = ColorStop{0, Transparent}
	c.stops[1] = ColorStop{1, vignetteEdge}
	s.FillRadialGradient(full, Vec2{W / 2, H / 2}, minSide*0.2, minSide*0.75, c.stops[:2], true)
}
