package starbloom

import "math"

var (
	heartDim       = RGBA(25, 0, 8, 0.65)
	heartHaloInner = RGBA(255, 60, 90, 0.2)
	heartHaloMid   = RGBA(255, 20, 60, 0.12)
	heartGlow      = RGBA(255, 40, 80, 0.14)
	heartFill      = RGBA(255, 40, 80, 1)
	heartOutline   = RGBA(255, 130, 160, 0.22)
)

// heartBeat returns the double-beat pulse in [0, 1] at ts seconds: a strong
// beat followed by a weaker, phase-shifted echo.
func heartBeat(ts float64) float64 {
	b1 := math.Max(0, math.Sin(ts*2.2))
	b2 := math.Max(0, math.Sin(ts*2.2+1.15)) * 0.55
	return math.Min(1, b1+b2)
}

// heartSize returns the pulsed heart size for a viewport at beat.
func heartSize(size Size, beat float64) float64 {
	return math.Min(size.Width, size.Height) * 0.22 * (1 + 0.085*beat)
}

// buildHeartPath writes a closed heart of size s centred on the origin into p.
func buildHeartPath(p *Path, s float64) {
	p.Reset()
	p.MoveTo(0, -0.18*s)
	p.CubicTo(-0.28*s, -0.46*s, -0.72*s, -0.26*s, -0.66*s, 0.1*s)
	p.CubicTo(-0.6*s, 0.44*s, -0.2*s, 0.7*s, 0, 0.86*s)
	p.CubicTo(0.2*s, 0.7*s, 0.6*s, 0.44*s, 0.66*s, 0.1*s)
	p.CubicTo(0.72*s, -0.26*s, 0.28*s, -0.46*s, 0, -0.18*s)
	p.Close()
}

// drawHeart paints the dimmed backdrop, halo, and beating heart at weight amt.
func (c *Compositor) drawHeart(s Surface, amt float64) {
	W, H := c.size.Width, c.size.Height
	beat := heartBeat(c.tMS * 0.001)
	size := heartSize(c.size, beat)
	center := Vec2{W * 0.5, H * 0.52}

	s.FillRect(Rect{0, 0, W, H}, heartDim.WithAlpha(amt))

	c.stops[0] = ColorStop{0, heartHaloInner.WithAlpha(amt)}
	c.stops[1] = ColorStop{0.35, heartHaloMid.WithAlpha(amt)}
	c.stops[2] = ColorStop{1, Transparent}
	s.FillRadialGradient(Rect{}, center, 0, size*2.1, c.stops[:3], false)

	s.Save()
	s.Translate(center.X, center.Y)

	// Soft outer heart stands in for a blurred shadow.
	buildHeartPath(&c.path, size*(1.06+0.04*beat))
	s.FillPath(&c.path, heartGlow.WithAlpha(amt))

	buildHeartPath(&c.path, size)
	s.FillPath(&c.path, heartFill.WithAlpha((0.5+0.22*beat)*amt))
	s.StrokePath(&c.path, 2, heartOutline.WithAlpha(amt))
	s.Restore()
}
