package starbloom

import "math"

var (
	skyTop      = RGBA(8, 14, 44, 0.95)
	skyBottom   = RGBA(18, 10, 32, 0.9)
	fogColor    = RGBA(255, 190, 220, 0.14)
	groundTop   = RGBA(6, 18, 20, 0.78)
	groundBase  = RGBA(2, 8, 10, 0.92)
	trunkColor  = RGBA(18, 12, 18, 0.95)
	branchColor = RGBA(18, 12, 18, 0.85)

	clusterInner = RGBA(255, 175, 210, 0.22)
	clusterMid   = RGBA(255, 145, 195, 0.11)
	dotColor     = RGBA(255, 195, 220, 1)
)

// Forest parallax in pixels at the viewport edge, before per-layer scaling.
const (
	forestParallaxX = 18
	forestParallaxY = 10
)

// layerParallax is the parallax multiplier of layer li.
func layerParallax(li int) float64 {
	return 0.35 + float64(li)*0.35
}

// drawSakura paints the sky, fog, ground band, and cached forest at weight amt.
func (c *Compositor) drawSakura(s Surface, amt float64) {
	W, H := c.size.Width, c.size.Height
	full := Rect{0, 0, W, H}

	c.stops[0] = ColorStop{0, skyTop.WithAlpha(amt)}
	c.stops[1] = ColorStop{1, skyBottom.WithAlpha(amt)}
	s.FillLinearGradient(full, Vec2{0, 0}, Vec2{0, H}, c.stops[:2])

	c.stops[0] = ColorStop{0, fogColor.WithAlpha(amt)}
	c.stops[1] = ColorStop{1, Transparent}
	s.FillRadialGradient(full, Vec2{W * 0.55, H * 0.35}, 0, math.Min(W, H)*0.85, c.stops[:2], false)

	groundY := H * forestGroundRatio
	c.stops[0] = ColorStop{0, groundTop.WithAlpha(amt)}
	c.stops[1] = ColorStop{1, groundBase.WithAlpha(amt)}
	s.FillLinearGradient(Rect{0, groundY, W, H - groundY}, Vec2{0, groundY}, Vec2{0, H}, c.stops[:2])

	parX := (c.pointer.X - 0.5) * forestParallaxX
	parY := (c.pointer.Y - 0.5) * forestParallaxY

	for li, L := range c.forest.get() {
		lp := layerParallax(li)
		s.Save()
		s.SetAlpha(amt * L.BaseAlpha)
		s.Translate(parX*lp, parY*lp)
		for ti := range L.Trees {
			c.drawTree(s, &L.Trees[ti], amt)
		}
		s.Restore()
	}
}

func (c *Compositor) drawTree(s Surface, t *Tree, amt float64) {
	p := &c.path
	p.Reset()
	p.MoveTo(t.Trunk[0].X, t.Trunk[0].Y)
	p.QuadTo(t.Trunk[1].X, t.Trunk[1].Y, t.Trunk[2].X, t.Trunk[2].Y)
	s.StrokePath(p, t.TrunkWidth, trunkColor)

	for i := range t.Branches {
		b := &t.Branches[i]
		p.Reset()
		p.MoveTo(b.Start.X, b.Start.Y)
		p.QuadTo(b.Control.X, b.Control.Y, b.End.X, b.End.Y)
		s.StrokePath(p, b.Width, branchColor)
	}

	for i := range t.Clusters {
		cl := &t.Clusters[i]
		c.stops[0] = ColorStop{0, clusterInner.WithAlpha(amt)}
		c.stops[1] = ColorStop{0.45, clusterMid.WithAlpha(amt)}
		c.stops[2] = ColorStop{1, Transparent}
		s.FillRadialGradient(Rect{}, cl.Anchor, 0, cl.Radius, c.stops[:3], false)

		for _, d := range cl.Dots {
			FillCircle(s, Vec2{cl.Anchor.X + d.Offset.X, cl.Anchor.Y + d.Offset.Y}, d.Size, dotColor.WithAlpha(d.Alpha*amt))
		}
	}
}
