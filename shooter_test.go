package starbloom

import (
	"math"
	"testing"
)

func TestShooterPoolSize(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(1))
	if len(p.Stars()) != 7 {
		t.Errorf("pool size = %d, want 7", len(p.Stars()))
	}
	p = NewShooterPool(ShooterConfig{}, NewRand(1))
	if len(p.Stars()) != 7 {
		t.Errorf("default pool size = %d, want 7", len(p.Stars()))
	}
}

func TestShooterDelayedStarDoesNotMove(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(2))
	s := &p.Stars()[0]
	s.Delay = 1
	x, y := s.X, s.Y
	p.Update(0.05, 1)
	if s.X != x || s.Y != y {
		t.Error("delayed star moved")
	}
	if math.Abs(s.Delay-0.95) > 1e-12 {
		t.Errorf("Delay = %v, want 0.95", s.Delay)
	}
}

func TestShooterIntegratesVelocity(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(3))
	s := &p.Stars()[0]
	*s = ShootingStar{X: 0.5, Y: 0.5, VX: 0.4, VY: 0.2}
	p.Update(0.05, 1)
	if math.Abs(s.X-0.52) > 1e-12 || math.Abs(s.Y-0.51) > 1e-12 {
		t.Errorf("position = (%v, %v), want (0.52, 0.51)", s.X, s.Y)
	}
}

func TestShooterEnvelope(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(4))
	cases := []struct {
		life, want float64
	}{
		{0, 0},
		{0.075, 0.5},
		{0.15, 1},
		{0.30, 1},
		{0.525, 0.5},
		{0.70, 0},
		{0.95, 0},
	}
	for _, c := range cases {
		if got := p.envelope(c.life); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("envelope(%v) = %v, want %v", c.life, got, c.want)
		}
	}
}

func TestShooterAlphaScaledByWeight(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(5))
	s := &p.Stars()[0]
	*s = ShootingStar{X: 0.5, Y: 0.5, VX: 0.01, Life: 0.2}
	p.Update(0.01, 0.25)
	if math.Abs(s.Alpha-0.25) > 1e-9 {
		t.Errorf("Alpha = %v, want 0.25", s.Alpha)
	}
}

func TestShooterRespawnOutOfBounds(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(6))
	s := &p.Stars()[3]
	*s = ShootingStar{X: 1.249, Y: 0.5, VX: 0.5}
	p.Update(0.01, 1)
	if s.Respawns != 1 {
		t.Fatalf("Respawns = %d, want 1", s.Respawns)
	}
	if s.Delay <= 0 {
		t.Errorf("respawned Delay = %v, want > 0", s.Delay)
	}
	if s.Life != 0 || s.Alpha != 0 {
		t.Errorf("respawned Life=%v Alpha=%v, want 0", s.Life, s.Alpha)
	}
	if s.X != -0.15 && s.X != 1.15 {
		t.Errorf("respawned X = %v, want an off-screen edge", s.X)
	}
}

func TestShooterRespawnAfterMaxLife(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(7))
	s := &p.Stars()[1]
	*s = ShootingStar{X: 0.5, Y: 0.5, Life: 0.99}
	p.Update(0.02, 1)
	if s.Respawns != 1 || s.Delay <= 0 {
		t.Errorf("Respawns=%d Delay=%v, want 1 and > 0", s.Respawns, s.Delay)
	}
}

func TestShooterEverySlotCycles(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(1337))
	before := &p.Stars()[0]
	// Worst case per cycle: 4.9s delay + 1s life. Simulate 20s at 60Hz.
	for i := 0; i < 20*60; i++ {
		p.Update(1.0/60.0, 1)
	}
	for i, s := range p.Stars() {
		if s.Respawns == 0 {
			t.Errorf("slot %d never respawned", i)
		}
	}
	if &p.Stars()[0] != before {
		t.Error("pool storage was reallocated")
	}
}

func TestShooterNeverVisibleWhileDelayed(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(99))
	for i := 0; i < 600; i++ {
		p.Update(1.0/60.0, 1)
		for j, s := range p.Stars() {
			if s.Delay > 0 && s.Alpha != 0 {
				t.Fatalf("tick %d slot %d: alpha %v while delayed", i, j, s.Alpha)
			}
		}
	}
}

func TestShooterDtClamped(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(8))
	s := &p.Stars()[0]
	*s = ShootingStar{X: 0.5, Y: 0.5, VX: 1}
	p.Update(3, 1)
	if math.Abs(s.X-0.55) > 1e-12 {
		t.Errorf("X = %v, want 0.55 after clamped step", s.X)
	}
}

func TestShooterSetConfigKeepsDelayPositive(t *testing.T) {
	p := NewShooterPool(DefaultShooterConfig(), NewRand(8))
	cfg := p.Config()
	cfg.Delay = Range{-1, 0}
	cfg.PoolSize = 3
	if got := p.Config().Delay; got != (Range{0.4, 4.9}) {
		t.Fatalf("Config copy leaked: Delay = %v", got)
	}

	p.SetConfig(cfg)
	if got := p.Config().Delay; got.Min <= 0 || got.Max < got.Min {
		t.Errorf("Delay = %v, want 0 < Min <= Max", got)
	}
	if got := len(p.Stars()); got != 7 {
		t.Errorf("len(Stars) = %d, want 7", got)
	}

	s := &p.Stars()[0]
	*s = ShootingStar{X: 1.3, Y: 0.5}
	p.Update(0.01, 1)
	if s.Respawns != 1 || s.Delay <= 0 {
		t.Errorf("Respawns=%d Delay=%v, want 1 and > 0", s.Respawns, s.Delay)
	}
}
