package starbloom

import "math"

// ShootingStar holds per-slot simulation state. Positions and velocities are
// normalised to the viewport (0..1 on each axis).
type ShootingStar struct {
	X, Y     float64
	VX, VY   float64
	Length   float64 // trail length as a fraction of min(width, height)
	Width    float64 // trail stroke width in pixels
	Alpha    float64
	Life     float64 // seconds since becoming active
	Delay    float64 // seconds before the star becomes active
	Respawns int
}

// Active reports whether the star has finished its spawn delay.
func (s *ShootingStar) Active() bool {
	return s.Delay <= 0
}

// ShooterConfig controls shooting-star spawning and lifetime.
type ShooterConfig struct {
	// PoolSize is the fixed number of slots. Slots are recycled, never
	// reallocated.
	PoolSize int
	// Speed is the horizontal speed range in viewport widths per second.
	Speed Range
	// Drift is the vertical speed range; its sign is chosen per spawn.
	Drift Range
	// DownwardChance is the probability the vertical drift points down.
	DownwardChance float64
	// SpawnHeight is the range of starting heights for respawned stars.
	SpawnHeight Range
	// Length is the trail length range.
	Length Range
	// Width is the trail width range.
	Width Range
	// Delay is the wait before a respawned star appears. Min must be > 0.
	Delay Range
	// FadeIn, HoldUntil and FadeOut shape the alpha envelope in seconds.
	FadeIn, HoldUntil, FadeOut float64
	// MaxLife is the age at which a star is respawned regardless of position.
	MaxLife float64
	// Bounds is the normalised region a star may occupy before respawning.
	Bounds Range
	// MaxStep caps the per-tick dt so a stalled frame does not teleport stars.
	MaxStep float64
}

// DefaultShooterConfig returns the stock seven-star configuration.
func DefaultShooterConfig() ShooterConfig {
	return ShooterConfig{
		PoolSize:       7,
		Speed:          Range{0.25, 0.60},
		Drift:          Range{0.10, 0.30},
		DownwardChance: 0.6,
		SpawnHeight:    Range{0, 0.65},
		Length:         Range{0.08, 0.18},
		Width:          Range{1.2, 3.0},
		Delay:          Range{0.4, 4.9},
		FadeIn:         0.15,
		HoldUntil:      0.35,
		FadeOut:        0.35,
		MaxLife:        1.0,
		Bounds:         Range{-0.25, 1.25},
		MaxStep:        0.05,
	}
}

// ShooterPool owns a fixed pool of shooting stars.
type ShooterPool struct {
	config ShooterConfig
	stars  []ShootingStar
	rng    *Rand
}

// NewShooterPool creates a pool and scatters its stars with randomised
// initial positions, ages, and delays.
func NewShooterPool(cfg ShooterConfig, rng *Rand) *ShooterPool {
	n := cfg.PoolSize
	if n <= 0 {
		n = 7
	}
	cfg.PoolSize = n
	p := &ShooterPool{config: cfg.normalized(), stars: make([]ShootingStar, n), rng: rng}
	for i := range p.stars {
		s := &p.stars[i]
		p.launch(s)
		s.X = p.rng.Float64()*1.2 - 0.1
		s.Y = p.rng.Float64() * 0.7
		s.Life = p.rng.Float64() * 2
		s.Delay = p.rng.Float64() * 2
	}
	return p
}

// Stars returns the pool slots. The returned slice MUST NOT be resized.
func (p *ShooterPool) Stars() []ShootingStar {
	return p.stars
}

// Config returns a copy of the pool's config.
func (p *ShooterPool) Config() ShooterConfig {
	return p.config
}

// SetConfig retunes the pool for future respawns. The pool size is fixed at
// creation and PoolSize is ignored.
func (p *ShooterPool) SetConfig(cfg ShooterConfig) {
	cfg.PoolSize = len(p.stars)
	p.config = cfg.normalized()
}

// normalized forces a strictly positive respawn delay.
func (c ShooterConfig) normalized() ShooterConfig {
	if c.Delay.Min <= 0 {
		c.Delay.Min = 0.1
	}
	if c.Delay.Max < c.Delay.Min {
		c.Delay.Max = c.Delay.Min
	}
	return c
}

// Update advances every slot by dt seconds. weight scales the resulting alpha.
func (p *ShooterPool) Update(dt, weight float64) {
	if p.config.MaxStep > 0 {
		dt = math.Min(dt, p.config.MaxStep)
	}
	if dt <= 0 {
		return
	}
	for i := range p.stars {
		s := &p.stars[i]
		if s.Delay > 0 {
			s.Delay -= dt
			if s.Delay > 0 {
				continue
			}
		}

		s.Life += dt
		s.Alpha = p.envelope(s.Life) * weight
		s.X += s.VX * dt
		s.Y += s.VY * dt

		b := p.config.Bounds
		if s.X < b.Min || s.X > b.Max || s.Y < b.Min || s.Y > b.Max || s.Life > p.config.MaxLife {
			p.launch(s)
			s.Respawns++
		}
	}
}

// envelope is the trapezoid alpha curve over a star's life.
func (p *ShooterPool) envelope(life float64) float64 {
	c := &p.config
	in := 1.0
	if c.FadeIn > 0 {
		in = math.Min(1, life/c.FadeIn)
	}
	out := 1.0
	if c.FadeOut > 0 {
		out = 1 - math.Min(1, (life-c.HoldUntil)/c.FadeOut)
	}
	return clamp01(in * clamp01(out))
}

// launch reinitialises s in place as a fresh star entering from a random
// side, hidden behind a strictly positive delay.
func (p *ShooterPool) launch(s *ShootingStar) {
	c := &p.config
	fromLeft := p.rng.Chance(0.5)
	dir := 1.0
	s.X = -0.15
	if !fromLeft {
		dir = -1
		s.X = 1.15
	}
	s.Y = c.SpawnHeight.Random(p.rng)
	s.VX = dir * c.Speed.Random(p.rng)
	s.VY = c.Drift.Random(p.rng)
	if !p.rng.Chance(c.DownwardChance) {
		s.VY = -s.VY
	}
	s.Length = c.Length.Random(p.rng)
	s.Width = c.Width.Random(p.rng)
	s.Alpha = 0
	s.Life = 0
	s.Delay = c.Delay.Random(p.rng)
}
