package starbloom

import "math"

const (
	starCount  = 220
	petalCount = 60

	// starParallax is the normalised star offset per unit of pointer offset
	// from the viewport centre.
	starParallax = 0.02
)

// Star is one fixed twinkling star in normalised coordinates.
type Star struct {
	X, Y    float64
	Radius  float64
	Twinkle float64 // flicker frequency multiplier
	Glow    float64 // glow radius multiplier
}

// Petal is one falling blossom petal in normalised coordinates.
type Petal struct {
	X, Y   float64
	Size   float64
	Angle  float64
	Wobble float64 // drift speed multiplier
}

var (
	starGlowInner = RGBA(255, 236, 160, 0.55)
	starGlowMid   = RGBA(255, 210, 90, 0.22)
	starCore      = RGBA(255, 245, 200, 0.9)
	petalColor    = RGBA(255, 170, 200, 0.95)

	trailMid  = RGBA(255, 220, 120, 0.18)
	trailHead = RGBA(255, 245, 210, 0.95)
	headColor = RGBA(255, 250, 220, 0.95)
)

func newStars(r *Rand) []Star {
	stars := make([]Star, starCount)
	for i := range stars {
		stars[i] = Star{
			X:       r.Float64(),
			Y:       r.Float64(),
			Radius:  0.3 + r.Float64()*1.4,
			Twinkle: 0.2 + r.Float64()*0.8,
			Glow:    0.2 + r.Float64()*0.9,
		}
	}
	return stars
}

func newPetals(r *Rand) []Petal {
	petals := make([]Petal, petalCount)
	for i := range petals {
		petals[i] = Petal{
			X:      r.Float64(),
			Y:      r.Float64(),
			Size:   0.2 + r.Float64()*0.7,
			Angle:  r.Float64() * math.Pi * 2,
			Wobble: 0.2 + r.Float64()*0.8,
		}
	}
	return petals
}

// twinkle is the flicker factor of a star at tMS milliseconds.
func twinkle(st *Star, tMS float64) float64 {
	return 0.55 + 0.45*math.Sin(tMS*0.001*st.Twinkle+st.X*10)
}

// drawStars paints the starfield at weight amt. pointer is the smoothed
// normalised pointer position.
func (c *Compositor) drawStars(s Surface, amt float64) {
	W, H := c.size.Width, c.size.Height
	px := (c.pointer.X - 0.5) * starParallax
	py := (c.pointer.Y - 0.5) * starParallax

	for i := range c.stars {
		st := &c.stars[i]
		a := amt * twinkle(st, c.tMS)
		center := Vec2{(st.X + px) * W, (st.Y + py) * H}

		c.stops[0] = ColorStop{0, starGlowInner.WithAlpha(a)}
		c.stops[1] = ColorStop{0.35, starGlowMid.WithAlpha(a)}
		c.stops[2] = ColorStop{1, Transparent}
		s.FillRadialGradient(Rect{}, center, 0, st.Radius*(4.2+2.2*st.Glow), c.stops[:3], false)
		FillCircle(s, center, st.Radius, starCore.WithAlpha(a))
	}
}

// drawShooters paints every visible shooting star. Alphas already carry the
// star weight from the last pool update.
func (c *Compositor) drawShooters(s Surface) {
	W, H := c.size.Width, c.size.Height
	tailScale := math.Min(W, H)

	for _, sh := range c.shooters.Stars() {
		if !sh.Active() || sh.Alpha <= 0 {
			continue
		}
		head := Vec2{sh.X * W, sh.Y * H}
		mag := math.Max(0.0001, math.Hypot(sh.VX, sh.VY))
		tail := sh.Length * tailScale
		from := Vec2{head.X - sh.VX/mag*tail, head.Y - sh.VY/mag*tail}

		c.stops[0] = ColorStop{0, Transparent}
		c.stops[1] = ColorStop{0.45, trailMid.WithAlpha(sh.Alpha)}
		c.stops[2] = ColorStop{1, trailHead.WithAlpha(sh.Alpha)}
		s.StrokeGradientLine(from, head, sh.Width, c.stops[:3])
		FillCircle(s, head, 2.2, headColor.WithAlpha(sh.Alpha))
	}
}

// petalOffset returns the wrapped normalised position of p at tMS.
func petalOffset(p *Petal, tMS float64) Vec2 {
	drift := tMS * 0.00005 * (0.6 + p.Wobble)
	return Vec2{wrap01(p.X + drift), wrap01(p.Y + drift*0.7)}
}

func wrap01(v float64) float64 {
	v = math.Mod(v, 1)
	if v < 0 {
		v++
	}
	return v
}

// drawPetals paints the falling petal ensemble at weight on.
func (c *Compositor) drawPetals(s Surface, on float64) {
	W, H := c.size.Width, c.size.Height
	for i := range c.petals {
		p := &c.petals[i]
		pos := petalOffset(p, c.tMS)
		size := (8 + 18*p.Size) * (0.6 + 0.4*on)

		s.Save()
		s.Translate(pos.X*W, pos.Y*H)
		s.Rotate(p.Angle + c.tMS*0.0002)
		s.SetAlpha(0.32 * on)
		s.FillEllipse(Vec2{}, size*0.55, size, petalColor)
		s.Restore()
	}
}

var sparkColor = Color{1, 1, 1, 1}

// drawSparks paints the rotating spark ring around the heart position.
func (c *Compositor) drawSparks(s Surface, on float64) {
	W, H := c.size.Width, c.size.Height
	n := int(20 + 120*on)
	base := math.Min(W, H) * 0.18
	cx, cy := W*0.5, H*0.52

	s.Save()
	s.SetAlpha(0.12 * on)
	for i := 0; i < n; i++ {
		a := float64(i)/float64(n)*math.Pi*2 + c.tMS*0.0003
		rad := base * (0.6 + 0.4*math.Sin(c.tMS*0.001+float64(i)))
		s.FillRect(Rect{cx + math.Cos(a)*rad, cy + math.Sin(a)*rad*0.65, 2, 2}, sparkColor)
	}
	s.Restore()
}
