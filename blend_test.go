package starbloom

import "testing"

func TestSceneWeightsConvergeMonotonically(t *testing.T) {
	b := NewBlender(SceneStars, DefaultBlendRate, DefaultSnapEpsilon)
	b.SetActive(SceneHeart)

	prev := b.Weights()
	limit := TicksToSettle(DefaultBlendRate, DefaultSnapEpsilon)
	for i := 0; i < limit; i++ {
		w := b.Step()
		if w[SceneHeart] < prev[SceneHeart] {
			t.Fatalf("tick %d: heart weight fell %v -> %v", i, prev[SceneHeart], w[SceneHeart])
		}
		if w[SceneStars] > prev[SceneStars] {
			t.Fatalf("tick %d: stars weight rose %v -> %v", i, prev[SceneStars], w[SceneStars])
		}
		prev = w
	}
	if !b.Weights().Settled(SceneHeart) {
		t.Errorf("weights %v not settled after %d ticks", b.Weights(), limit)
	}
}

func TestTicksToSettleDefault(t *testing.T) {
	n := TicksToSettle(DefaultBlendRate, DefaultSnapEpsilon)
	if n != 60 {
		t.Errorf("TicksToSettle = %d, want 60", n)
	}
	if TicksToSettle(1, DefaultSnapEpsilon) != 1 {
		t.Error("rate 1 should settle in one tick")
	}
}

func TestSceneWeightsSnap(t *testing.T) {
	var w SceneWeights
	w[SceneFlower] = 1 - 4e-4
	w[SceneStars] = 3e-4
	w = w.Step(SceneFlower, 0.01, DefaultSnapEpsilon)
	if w[SceneFlower] != 1 {
		t.Errorf("flower = %v, want snapped to 1", w[SceneFlower])
	}
	if w[SceneStars] != 0 {
		t.Errorf("stars = %v, want snapped to 0", w[SceneStars])
	}
}

func TestSakuraCrossesBeforeStarsDrop(t *testing.T) {
	b := NewBlender(SceneStars, 0.12, DefaultSnapEpsilon)
	sakuraTick, starsTick := -1, -1
	for tick := 0; tick < 100 && (sakuraTick < 0 || starsTick < 0); tick++ {
		b.SetActive(SceneSakura)
		w := b.Step()
		if sakuraTick < 0 && w[SceneSakura] > 0.5 {
			sakuraTick = tick
		}
		if starsTick < 0 && w[SceneStars] < 0.5 {
			starsTick = tick
		}
	}
	if sakuraTick < 0 || starsTick < 0 {
		t.Fatalf("crossings not observed: sakura %d, stars %d", sakuraTick, starsTick)
	}
	if sakuraTick > starsTick {
		t.Errorf("sakura crossed at %d, after stars dropped at %d", sakuraTick, starsTick)
	}
	if starsTick-sakuraTick > 1 {
		t.Errorf("lag = %d ticks, want at most 1", starsTick-sakuraTick)
	}
}

func TestSceneWeightsIndependent(t *testing.T) {
	var w SceneWeights
	w[SceneSakura] = 0.5
	w[SceneFlower] = 0.5
	w = w.Step(SceneFlower, 0.5, DefaultSnapEpsilon)
	if w[SceneSakura] != 0.25 || w[SceneFlower] != 0.75 {
		t.Errorf("weights = %v, want sakura 0.25 flower 0.75", w)
	}
}

func TestBlenderSetActiveReportsChange(t *testing.T) {
	b := NewBlender(SceneStars, DefaultBlendRate, DefaultSnapEpsilon)
	if b.SetActive(SceneStars) {
		t.Error("SetActive(same) reported a change")
	}
	if !b.SetActive(SceneSakura) {
		t.Error("SetActive(new) did not report a change")
	}
	if b.SetActive(Scene(200)) {
		t.Error("SetActive(invalid) reported a change")
	}
	if b.Active() != SceneSakura {
		t.Errorf("Active = %v, want sakura", b.Active())
	}
}

func TestParseScene(t *testing.T) {
	for _, s := range []Scene{SceneStars, SceneSakura, SceneFlower, SceneHeart} {
		got, ok := ParseScene(s.String())
		if !ok || got != s {
			t.Errorf("ParseScene(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseScene("ocean"); ok {
		t.Error("ParseScene accepted an unknown name")
	}
}
