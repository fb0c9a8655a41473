package starbloom

import "math"

// ColorStop is one stop of a multi-stop gradient. Offset is in [0, 1].
type ColorStop struct {
	Offset float64
	Color  Color
}

// sampleStops returns the gradient color at t, clamping outside the stops.
func sampleStops(stops []ColorStop, t float64) Color {
	if len(stops) == 0 {
		return Transparent
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.Offset {
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			u := (t - a.Offset) / span
			return Color{
				R: lerp(a.Color.R, b.Color.R, u),
				G: lerp(a.Color.G, b.Color.G, u),
				B: lerp(a.Color.B, b.Color.B, u),
				A: lerp(a.Color.A, b.Color.A, u),
			}
		}
	}
	return stops[len(stops)-1].Color
}

type pathOp uint8

const (
	pathMoveTo pathOp = iota
	pathLineTo
	pathQuadTo
	pathCubicTo
	pathClose
)

type pathCmd struct {
	op  pathOp
	pts [3]Vec2
}

// Path is a recorded sequence of drawing commands in local coordinates.
// Surfaces flatten curves themselves.
type Path struct {
	cmds []pathCmd
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.cmds = append(p.cmds, pathCmd{op: pathMoveTo, pts: [3]Vec2{{x, y}}})
}

// LineTo adds a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.cmds = append(p.cmds, pathCmd{op: pathLineTo, pts: [3]Vec2{{x, y}}})
}

// QuadTo adds a quadratic Bézier with control (cx, cy) ending at (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.cmds = append(p.cmds, pathCmd{op: pathQuadTo, pts: [3]Vec2{{cx, cy}, {x, y}}})
}

// CubicTo adds a cubic Bézier ending at (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.cmds = append(p.cmds, pathCmd{op: pathCubicTo, pts: [3]Vec2{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.cmds = append(p.cmds, pathCmd{op: pathClose})
}

// Reset empties the path, keeping its storage.
func (p *Path) Reset() {
	p.cmds = p.cmds[:0]
}

// Len returns the number of recorded commands.
func (p *Path) Len() int {
	return len(p.cmds)
}

// Surface is the drawing capability the compositor paints through. All
// coordinates are logical pixels in the current transform. Global alpha
// multiplies every fill and stroke.
type Surface interface {
	// Size returns the logical size of the surface.
	Size() Size

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(theta float64)
	SetAlpha(a float64)

	FillRect(r Rect, c Color)
	// FillLinearGradient fills r with a gradient running from 'from' to 'to'.
	FillLinearGradient(r Rect, from, to Vec2, stops []ColorStop)
	// FillRadialGradient fills the disc of radius r1 about center with stops
	// mapped over [r0, r1]. When extend is true the last stop also covers r
	// outside the disc.
	FillRadialGradient(r Rect, center Vec2, r0, r1 float64, stops []ColorStop, extend bool)
	FillEllipse(center Vec2, rx, ry float64, c Color)
	// FillPath fills the closed subpaths of p. Subpaths must be star-shaped
	// about their vertex centroid.
	FillPath(p *Path, c Color)
	StrokePath(p *Path, width float64, c Color)
	// StrokeGradientLine strokes a straight segment whose color runs along
	// stops from 'from' to 'to'.
	StrokeGradientLine(from, to Vec2, width float64, stops []ColorStop)
}

// FillCircle fills a circle on s.
func FillCircle(s Surface, center Vec2, r float64, c Color) {
	s.FillEllipse(center, r, r, c)
}

// flattenPath converts p into device-space polylines under m, calling emit
// once per subpath. The slice passed to emit is reused between calls.
func flattenPath(p *Path, m [6]float64, scratch *[]Vec2, emit func(poly []Vec2)) {
	poly := (*scratch)[:0]
	var cur, start Vec2
	scale := affineScale(m)

	push := func(x, y float64) {
		dx, dy := transformPoint(m, x, y)
		poly = append(poly, Vec2{dx, dy})
	}
	finish := func() {
		if len(poly) > 0 {
			emit(poly)
		}
		poly = poly[:0]
	}

	for _, cmd := range p.cmds {
		switch cmd.op {
		case pathMoveTo:
			finish()
			cur, start = cmd.pts[0], cmd.pts[0]
			push(cur.X, cur.Y)
		case pathLineTo:
			cur = cmd.pts[0]
			push(cur.X, cur.Y)
		case pathQuadTo:
			c, end := cmd.pts[0], cmd.pts[1]
			n := curveSegments((dist(cur, c) + dist(c, end)) * scale)
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				u := 1 - t
				push(u*u*cur.X+2*u*t*c.X+t*t*end.X, u*u*cur.Y+2*u*t*c.Y+t*t*end.Y)
			}
			cur = end
		case pathCubicTo:
			c1, c2, end := cmd.pts[0], cmd.pts[1], cmd.pts[2]
			n := curveSegments((dist(cur, c1) + dist(c1, c2) + dist(c2, end)) * scale)
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				u := 1 - t
				a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
				push(a*cur.X+b*c1.X+c*c2.X+d*end.X, a*cur.Y+b*c1.Y+c*c2.Y+d*end.Y)
			}
			cur = end
		case pathClose:
			finish()
			cur = start
		}
	}
	finish()
	*scratch = poly
}

// curveSegments picks a flattening step count from a control polygon length
// in device pixels.
func curveSegments(length float64) int {
	n := int(length / 3)
	if n < 4 {
		return 4
	}
	if n > 48 {
		return 48
	}
	return n
}

func dist(a, b Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
