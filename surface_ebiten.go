package starbloom

import (
	"image"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// maxBatchVertices caps one DrawTriangles32 submission.
const maxBatchVertices = 1<<16 - 1

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(Color{1, 1, 1, 1}.toRGBA())
}

type surfaceState struct {
	m     [6]float64
	alpha float64
}

// ImageSurface implements Surface on an ebiten image. Every fill and stroke is
// tessellated into colored triangles and accumulated into one vertex batch,
// submitted with DrawTriangles32 when full or on End.
type ImageSurface struct {
	target *ebiten.Image
	size   Size
	scale  float64

	state surfaceState
	stack []surfaceState

	verts []ebiten.Vertex
	inds  []uint32

	flat   []Vec2
	stroke vector.Path

	// Per-frame counters, reset by Begin.
	submitted int
	drawCalls int
	strokes   int
}

// NewImageSurface returns an ImageSurface with preallocated buffers.
func NewImageSurface() *ImageSurface {
	return &ImageSurface{
		verts: make([]ebiten.Vertex, 0, 8192),
		inds:  make([]uint32, 0, 16384),
	}
}

// Begin starts a frame on target. size is the logical size and scale the
// device pixel ratio applied to every coordinate.
func (s *ImageSurface) Begin(target *ebiten.Image, size Size, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.target = target
	s.size = size.clamped()
	s.scale = scale
	s.state = surfaceState{m: scaleAffine(identityTransform, scale), alpha: 1}
	s.stack = s.stack[:0]
	s.submitted = 0
	s.drawCalls = 0
	s.strokes = 0
}

// End flushes pending triangles and releases the target.
func (s *ImageSurface) End() {
	s.flush()
	s.target = nil
}

// Vertices returns the number of vertices submitted since Begin.
func (s *ImageSurface) Vertices() int { return s.submitted + len(s.verts) }

// DrawCalls returns the number of DrawTriangles32 calls since Begin.
func (s *ImageSurface) DrawCalls() int { return s.drawCalls }

// Strokes returns the number of paths stroked since Begin.
func (s *ImageSurface) Strokes() int { return s.strokes }

func (s *ImageSurface) flush() {
	if len(s.verts) == 0 || s.target == nil {
		s.verts = s.verts[:0]
		s.inds = s.inds[:0]
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	s.target.DrawTriangles32(s.verts, s.inds, whiteSubImage, &op)
	s.submitted += len(s.verts)
	s.drawCalls++
	s.verts = s.verts[:0]
	s.inds = s.inds[:0]
}

// reserve flushes when n more vertices would overflow the batch and returns
// the base index for them.
func (s *ImageSurface) reserve(n int) uint32 {
	if len(s.verts)+n > maxBatchVertices {
		s.flush()
	}
	return uint32(len(s.verts))
}

// vertex builds a premultiplied vertex from a device-space point.
func (s *ImageSurface) vertex(x, y float64, c Color) ebiten.Vertex {
	a := clamp01(c.A * s.state.alpha)
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   1.5,
		SrcY:   1.5,
		ColorR: float32(clamp01(c.R) * a),
		ColorG: float32(clamp01(c.G) * a),
		ColorB: float32(clamp01(c.B) * a),
		ColorA: float32(a),
	}
}

// local builds a vertex from a point in the current transform.
func (s *ImageSurface) local(x, y float64, c Color) ebiten.Vertex {
	dx, dy := transformPoint(s.state.m, x, y)
	return s.vertex(dx, dy, c)
}

func (s *ImageSurface) Size() Size { return s.size }

func (s *ImageSurface) Save() {
	s.stack = append(s.stack, s.state)
}

func (s *ImageSurface) Restore() {
	if n := len(s.stack); n > 0 {
		s.state = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

func (s *ImageSurface) Translate(x, y float64) {
	s.state.m = translateAffine(s.state.m, x, y)
}

func (s *ImageSurface) Rotate(theta float64) {
	s.state.m = rotateAffine(s.state.m, theta)
}

func (s *ImageSurface) SetAlpha(a float64) {
	s.state.alpha = clamp01(a)
}

// quad appends a four-corner polygon p0-p1-p2-p3 with per-corner colors.
func (s *ImageSurface) quad(p [4]Vec2, c [4]Color) {
	base := s.reserve(4)
	for i := range p {
		s.verts = append(s.verts, s.local(p[i].X, p[i].Y, c[i]))
	}
	s.inds = append(s.inds, base, base+1, base+2, base, base+2, base+3)
}

func (s *ImageSurface) FillRect(r Rect, c Color) {
	s.quad(rectCorners(r), [4]Color{c, c, c, c})
}

func rectCorners(r Rect) [4]Vec2 {
	return [4]Vec2{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
}

func (s *ImageSurface) FillLinearGradient(r Rect, from, to Vec2, stops []ColorStop) {
	dx, dy := to.X-from.X, to.Y-from.Y
	den := dx*dx + dy*dy
	if den == 0 || len(stops) == 0 {
		if len(stops) > 0 {
			s.FillRect(r, stops[len(stops)-1].Color)
		}
		return
	}
	tAt := func(x, y float64) float64 {
		return ((x-from.X)*dx + (y-from.Y)*dy) / den
	}

	switch {
	case math.Abs(dx) < 1e-9:
		// Vertical: split into horizontal bands at each stop.
		cuts := []float64{r.Y, r.Y + r.Height}
		for _, st := range stops {
			y := from.Y + st.Offset*dy
			if y > r.Y && y < r.Y+r.Height {
				cuts = append(cuts, y)
			}
		}
		sort.Float64s(cuts)
		for i := 1; i < len(cuts); i++ {
			y0, y1 := cuts[i-1], cuts[i]
			c0 := sampleStops(stops, tAt(from.X, y0))
			c1 := sampleStops(stops, tAt(from.X, y1))
			s.quad([4]Vec2{{r.X, y0}, {r.X + r.Width, y0}, {r.X + r.Width, y1}, {r.X, y1}},
				[4]Color{c0, c0, c1, c1})
		}
	case math.Abs(dy) < 1e-9:
		cuts := []float64{r.X, r.X + r.Width}
		for _, st := range stops {
			x := from.X + st.Offset*dx
			if x > r.X && x < r.X+r.Width {
				cuts = append(cuts, x)
			}
		}
		sort.Float64s(cuts)
		for i := 1; i < len(cuts); i++ {
			x0, x1 := cuts[i-1], cuts[i]
			c0 := sampleStops(stops, tAt(x0, from.Y))
			c1 := sampleStops(stops, tAt(x1, from.Y))
			s.quad([4]Vec2{{x0, r.Y}, {x1, r.Y}, {x1, r.Y + r.Height}, {x0, r.Y + r.Height}},
				[4]Color{c0, c1, c1, c0})
		}
	default:
		p := rectCorners(r)
		var c [4]Color
		for i := range p {
			c[i] = sampleStops(stops, tAt(p[i].X, p[i].Y))
		}
		s.quad(p, c)
	}
}

// segmentsFor picks a circle subdivision for a device-space radius.
func segmentsFor(radius float64) int {
	n := int(2 * math.Pi * radius / 4)
	if n < 8 {
		return 8
	}
	if n > 96 {
		return 96
	}
	return n
}

// ring appends an annulus between radii ra and rb about the local point c.
// ra may be zero, producing a disc.
func (s *ImageSurface) ring(c Vec2, ra, rb float64, ca, cb Color) {
	segs := segmentsFor(rb * affineScale(s.state.m))
	if ra <= 0 {
		base := s.reserve(segs + 1)
		s.verts = append(s.verts, s.local(c.X, c.Y, ca))
		for i := 0; i < segs; i++ {
			sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(segs))
			s.verts = append(s.verts, s.local(c.X+cos*rb, c.Y+sin*rb, cb))
		}
		for i := 0; i < segs; i++ {
			j := (i + 1) % segs
			s.inds = append(s.inds, base, base+1+uint32(i), base+1+uint32(j))
		}
		return
	}
	base := s.reserve(segs * 2)
	for i := 0; i < segs; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(segs))
		s.verts = append(s.verts,
			s.local(c.X+cos*ra, c.Y+sin*ra, ca),
			s.local(c.X+cos*rb, c.Y+sin*rb, cb))
	}
	for i := 0; i < segs; i++ {
		j := (i + 1) % segs
		a0, b0 := base+uint32(2*i), base+uint32(2*i+1)
		a1, b1 := base+uint32(2*j), base+uint32(2*j+1)
		s.inds = append(s.inds, a0, b0, b1, a0, b1, a1)
	}
}

func (s *ImageSurface) FillRadialGradient(r Rect, center Vec2, r0, r1 float64, stops []ColorStop, extend bool) {
	if len(stops) == 0 || r1 <= 0 {
		return
	}
	if r0 < 0 {
		r0 = 0
	}
	if r0 > 0 {
		first := stops[0].Color
		s.ring(center, 0, r0, first, first)
	}
	prevR, prevC := r0, sampleStops(stops, 0)
	for _, st := range stops {
		rad := r0 + clamp01(st.Offset)*(r1-r0)
		if rad <= prevR {
			prevC = st.Color
			continue
		}
		s.ring(center, prevR, rad, prevC, st.Color)
		prevR, prevC = rad, st.Color
	}
	if prevR < r1 {
		s.ring(center, prevR, r1, prevC, prevC)
		prevR = r1
	}
	if extend {
		far := 0.0
		for _, p := range rectCorners(r) {
			far = math.Max(far, math.Hypot(p.X-center.X, p.Y-center.Y))
		}
		if far > prevR {
			s.ring(center, prevR, far, prevC, prevC)
		}
	}
}

func (s *ImageSurface) FillEllipse(center Vec2, rx, ry float64, c Color) {
	if rx <= 0 || ry <= 0 {
		return
	}
	segs := segmentsFor(math.Max(rx, ry) * affineScale(s.state.m))
	base := s.reserve(segs + 1)
	s.verts = append(s.verts, s.local(center.X, center.Y, c))
	for i := 0; i < segs; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(segs))
		s.verts = append(s.verts, s.local(center.X+cos*rx, center.Y+sin*ry, c))
	}
	for i := 0; i < segs; i++ {
		j := (i + 1) % segs
		s.inds = append(s.inds, base, base+1+uint32(i), base+1+uint32(j))
	}
}

func (s *ImageSurface) FillPath(p *Path, c Color) {
	flattenPath(p, s.state.m, &s.flat, func(poly []Vec2) {
		if len(poly) < 3 {
			return
		}
		var cx, cy float64
		for _, v := range poly {
			cx += v.X
			cy += v.Y
		}
		cx /= float64(len(poly))
		cy /= float64(len(poly))

		n := len(poly)
		base := s.reserve(n + 1)
		s.verts = append(s.verts, s.vertex(cx, cy, c))
		for _, v := range poly {
			s.verts = append(s.verts, s.vertex(v.X, v.Y, c))
		}
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			s.inds = append(s.inds, base, base+1+uint32(i), base+1+uint32(j))
		}
	})
}

// StrokePath strokes p as one non-zero filled outline, so a translucent
// stroke covers self-overlaps once. Pending triangles are flushed first to
// keep draw order.
func (s *ImageSurface) StrokePath(p *Path, width float64, c Color) {
	a := clamp01(c.A * s.state.alpha)
	if p.Len() == 0 || width <= 0 || a == 0 || s.target == nil {
		return
	}
	vp := &s.stroke
	vp.Reset()
	m := s.state.m
	for _, cmd := range p.cmds {
		switch cmd.op {
		case pathMoveTo:
			x, y := transformPoint(m, cmd.pts[0].X, cmd.pts[0].Y)
			vp.MoveTo(float32(x), float32(y))
		case pathLineTo:
			x, y := transformPoint(m, cmd.pts[0].X, cmd.pts[0].Y)
			vp.LineTo(float32(x), float32(y))
		case pathQuadTo:
			cx, cy := transformPoint(m, cmd.pts[0].X, cmd.pts[0].Y)
			x, y := transformPoint(m, cmd.pts[1].X, cmd.pts[1].Y)
			vp.QuadTo(float32(cx), float32(cy), float32(x), float32(y))
		case pathCubicTo:
			c1x, c1y := transformPoint(m, cmd.pts[0].X, cmd.pts[0].Y)
			c2x, c2y := transformPoint(m, cmd.pts[1].X, cmd.pts[1].Y)
			x, y := transformPoint(m, cmd.pts[2].X, cmd.pts[2].Y)
			vp.CubicTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(x), float32(y))
		case pathClose:
			vp.Close()
		}
	}

	s.flush()
	so := &vector.StrokeOptions{
		Width:    float32(width * affineScale(m)),
		LineCap:  vector.LineCapRound,
		LineJoin: vector.LineJoinRound,
	}
	do := &vector.DrawPathOptions{AntiAlias: true}
	do.ColorScale.Scale(float32(clamp01(c.R)*a), float32(clamp01(c.G)*a), float32(clamp01(c.B)*a), float32(a))
	vector.StrokePath(s.target, vp, so, do)
	s.strokes++
}

func (s *ImageSurface) StrokeGradientLine(from, to Vec2, width float64, stops []ColorStop) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 || width <= 0 || len(stops) == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	cuts := []float64{0, 1}
	for _, st := range stops {
		if st.Offset > 0 && st.Offset < 1 {
			cuts = append(cuts, st.Offset)
		}
	}
	sort.Float64s(cuts)
	for i := 1; i < len(cuts); i++ {
		t0, t1 := cuts[i-1], cuts[i]
		if t1 <= t0 {
			continue
		}
		a := Vec2{from.X + dx*t0, from.Y + dy*t0}
		b := Vec2{from.X + dx*t1, from.Y + dy*t1}
		c0, c1 := sampleStops(stops, t0), sampleStops(stops, t1)
		s.quad([4]Vec2{
			{a.X + nx, a.Y + ny},
			{b.X + nx, b.Y + ny},
			{b.X - nx, b.Y - ny},
			{a.X - nx, a.Y - ny},
		}, [4]Color{c0, c1, c1, c0})
	}
}
