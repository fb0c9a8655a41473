package starbloom

import "math"

// ForestLayer is one depth band of the sakura forest. Layers are drawn in
// index order with increasing scale, alpha, and branch density.
type ForestLayer struct {
	TreeCount int
	Scale     float64
	BaseAlpha float64
	GroundY   float64
	// Spread widens the band past the viewport edges so trees can sit partly
	// off screen.
	Spread float64
	Trees  []Tree
}

// Tree is a trunk (quadratic curve) with its branches and blossom clusters.
type Tree struct {
	Trunk      [3]Vec2 // base, control, tip
	TrunkWidth float64
	Branches   []Branch
	Clusters   []Cluster
}

// Branch is a quadratic stroke. Sub-branches follow their parent in
// Tree.Branches and record its index in Parent; primary branches use -1.
type Branch struct {
	Start, Control, End Vec2
	Width               float64
	Dir                 float64 // -1 grows left, 1 grows right
	Parent              int
}

// Cluster is a blossom ellipse anchored at a branch endpoint.
type Cluster struct {
	Anchor Vec2
	Radius float64
	Dots   []Dot
}

// Dot is a single blossom speck. Offset is relative to the cluster anchor.
type Dot struct {
	Offset Vec2
	Size   float64
	Alpha  float64
}

type forestLayerSpec struct {
	count  int
	scale  float64
	alpha  float64
	spread float64
}

var forestLayerSpecs = [...]forestLayerSpec{
	{count: 6, scale: 0.75, alpha: 0.28, spread: 1.1},
	{count: 7, scale: 0.95, alpha: 0.42, spread: 1.05},
	{count: 8, scale: 1.18, alpha: 0.58, spread: 1.0},
}

const (
	forestGroundRatio = 0.72
	subBranchChance   = 0.65
	clusterFalloff    = 0.55 // radial exponent; < 1 packs dots toward the centre
	clusterSquash     = 0.72 // vertical squash of blossom ellipses
)

// BuildForest generates the forest geometry for a viewport. The result depends
// only on its arguments: equal inputs produce identical geometry. Dimensions
// below one pixel are clamped.
func BuildForest(seed uint32, width, height float64) []ForestLayer {
	vp := Size{width, height}.clamped()
	w, h := vp.Width, vp.Height
	r := NewRand(seed)
	groundY := h * forestGroundRatio

	layers := make([]ForestLayer, len(forestLayerSpecs))
	for li, spec := range forestLayerSpecs {
		L := ForestLayer{
			TreeCount: spec.count,
			Scale:     spec.scale,
			BaseAlpha: spec.alpha,
			GroundY:   groundY,
			Spread:    spec.spread,
			Trees:     make([]Tree, 0, spec.count),
		}
		for i := 0; i < spec.count; i++ {
			L.Trees = append(L.Trees, buildTree(r, &L, li, i, w, h))
		}
		layers[li] = L
	}
	return layers
}

func buildTree(r *Rand, L *ForestLayer, li, i int, w, h float64) Tree {
	n := float64(L.TreeCount)
	x := (float64(i)+0.15+r.Float64()*0.7)/n*w*L.Spread - w*(L.Spread-1)*0.5

	trunkH := h * (0.38 * L.Scale) * (0.82 + r.Float64()*0.28)
	trunkW := (10 + r.Float64()*10) * L.Scale
	sway := (r.Float64()*2 - 1) * (28 + 24*L.Scale)

	t := Tree{
		Trunk: [3]Vec2{
			{x, L.GroundY},
			{x + sway*0.25, L.GroundY - trunkH*0.55},
			{x + sway, L.GroundY - trunkH},
		},
		TrunkWidth: trunkW,
	}

	branchCount := 10 + li*5
	t.Branches = make([]Branch, 0, branchCount*2)
	for b := 0; b < branchCount; b++ {
		tt := 0.35 + r.Float64()*0.55
		base := quadPoint(t.Trunk[0], t.Trunk[1], t.Trunk[2], tt)

		dir := r.Sign()
		length := (35 + r.Float64()*75) * L.Scale * (0.7 + (1-tt)*0.6)
		up := (0.35 + r.Float64()*0.5) * length

		br := Branch{
			Start: base,
			End:   Vec2{base.X + dir*length, base.Y - up},
			Control: Vec2{
				base.X + dir*length*(0.35+r.Float64()*0.2),
				base.Y - up*(0.55+r.Float64()*0.15),
			},
			Width:  math.Max(1.6, trunkW*(0.18+(1-tt)*0.22)),
			Dir:    dir,
			Parent: -1,
		}
		parent := len(t.Branches)
		t.Branches = append(t.Branches, br)

		if r.Chance(subBranchChance) {
			t.Branches = append(t.Branches, buildSubBranch(r, br, parent, length, up, trunkW))
		}
	}

	clusterCount := 6 + li*4
	t.Clusters = make([]Cluster, 0, clusterCount)
	for c := 0; c < clusterCount; c++ {
		t.Clusters = append(t.Clusters, buildCluster(r, &t, L.Scale, li))
	}
	return t
}

func buildSubBranch(r *Rand, parent Branch, parentIdx int, length, up, trunkW float64) Branch {
	t2 := 0.35 + r.Float64()*0.45
	s := quadPoint(parent.Start, parent.Control, parent.End, t2)

	dir := parent.Dir * r.Sign()
	slen := length * (0.45 + r.Float64()*0.35)
	sup := up * (0.45 + r.Float64()*0.35)

	return Branch{
		Start: s,
		Control: Vec2{
			s.X + dir*slen*(0.38+r.Float64()*0.25),
			s.Y - sup*(0.55+r.Float64()*0.2),
		},
		End:    Vec2{s.X + dir*slen, s.Y - sup},
		Width:  math.Max(1.1, trunkW*0.12),
		Dir:    dir,
		Parent: parentIdx,
	}
}

func buildCluster(r *Rand, t *Tree, scale float64, li int) Cluster {
	anchor := t.Trunk[2]
	if len(t.Branches) > 0 {
		anchor = t.Branches[int(r.Float64()*float64(len(t.Branches)))].End
	}

	radius := (42 + r.Float64()*58) * scale
	nDots := int((55 + r.Float64()*75) * (0.75 + float64(li)*0.25))

	cl := Cluster{Anchor: anchor, Radius: radius, Dots: make([]Dot, nDots)}
	for k := range cl.Dots {
		ang := r.Float64() * math.Pi * 2
		rr := math.Pow(r.Float64(), clusterFalloff) * radius
		sin, cos := math.Sincos(ang)
		cl.Dots[k] = Dot{
			Offset: Vec2{cos * rr, sin * rr * clusterSquash},
			Size:   1.2 + r.Float64()*2.2*scale,
			Alpha:  0.08 + r.Float64()*0.18,
		}
	}
	return cl
}

// quadPoint evaluates the quadratic Bézier p0-p1-p2 at t.
func quadPoint(p0, p1, p2 Vec2, t float64) Vec2 {
	u := 1 - t
	return Vec2{
		u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

// forestCache holds the geometry for the current viewport. It is rebuilt on
// the first read after invalidate and never mutated in place.
type forestCache struct {
	seed   uint32
	size   Size
	layers []ForestLayer
	builds int
}

func (c *forestCache) invalidate(size Size) {
	c.size = size
	c.layers = nil
}

func (c *forestCache) get() []ForestLayer {
	if c.layers == nil {
		c.layers = BuildForest(c.seed, c.size.Width, c.size.Height)
		c.builds++
	}
	return c.layers
}
