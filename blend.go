package starbloom

import "math"

const (
	// DefaultBlendRate is the per-tick fraction of the remaining distance a
	// weight moves toward its target.
	DefaultBlendRate = 0.12
	// DefaultSnapEpsilon is the distance under which a weight snaps to its
	// target.
	DefaultSnapEpsilon = 5e-4
)

// SceneWeights holds one opacity per scene. Weights are independent and need
// not sum to one.
type SceneWeights [sceneCount]float64

// Get returns the weight for s.
func (w SceneWeights) Get(s Scene) float64 {
	if s >= sceneCount {
		return 0
	}
	return w[s]
}

// Step moves every weight toward 1 for the active scene and 0 for the rest by
// the fraction rate, snapping to the target once within eps.
func (w SceneWeights) Step(active Scene, rate, eps float64) SceneWeights {
	rate = clamp01(rate)
	for i := range w {
		target := 0.0
		if Scene(i) == active {
			target = 1
		}
		w[i] += (target - w[i]) * rate
		if math.Abs(target-w[i]) < eps {
			w[i] = target
		}
	}
	return w
}

// Settled reports whether every weight sits exactly on its target for active.
func (w SceneWeights) Settled(active Scene) bool {
	for i, v := range w {
		if Scene(i) == active {
			if v != 1 {
				return false
			}
		} else if v != 0 {
			return false
		}
	}
	return true
}

// TicksToSettle returns the number of Step calls needed for a weight to cross
// from 0 to within eps of 1 at the given rate.
func TicksToSettle(rate, eps float64) int {
	if rate >= 1 {
		return 1
	}
	if rate <= 0 || eps <= 0 {
		return math.MaxInt
	}
	return int(math.Ceil(math.Log(eps) / math.Log(1-rate)))
}

// Blender tracks the active scene and its smoothed weights.
type Blender struct {
	Rate    float64
	Epsilon float64

	active  Scene
	weights SceneWeights
}

// NewBlender returns a Blender with all weight on initial.
func NewBlender(initial Scene, rate, eps float64) *Blender {
	b := &Blender{Rate: rate, Epsilon: eps, active: initial}
	b.weights[initial] = 1
	return b
}

// SetActive changes the scene the weights converge toward. It reports whether
// the active scene changed.
func (b *Blender) SetActive(s Scene) bool {
	if s >= sceneCount || s == b.active {
		return false
	}
	b.active = s
	return true
}

// Active returns the current target scene.
func (b *Blender) Active() Scene { return b.active }

// Weights returns the current weights.
func (b *Blender) Weights() SceneWeights { return b.weights }

// Step advances the weights by one tick.
func (b *Blender) Step() SceneWeights {
	b.weights = b.weights.Step(b.active, b.Rate, b.Epsilon)
	return b.weights
}
