package starbloom

import (
	"flag"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds engine tunables. Zero fields are not defaulted; start from
// DefaultConfig.
type Config struct {
	// Seed drives every procedural choice: forest, stars, petals, shooters.
	Seed uint32

	// BlendRate is the per-tick fraction each scene weight moves toward its
	// target. SnapEpsilon snaps weights to exactly 0 or 1.
	BlendRate   float64
	SnapEpsilon float64

	Shooters ShooterConfig

	// ParallaxFrequency and ParallaxDamping tune the spring that smooths the
	// pointer before it feeds parallax offsets.
	ParallaxFrequency float64
	ParallaxDamping   float64

	// MusicVolume is the music level after StartJourney and the fallback
	// pre-duck volume. DuckVolume is the near-silent level during narration.
	MusicVolume float64
	DuckVolume  float64

	DuckDuration           time.Duration
	RestoreDuration        time.Duration
	FailureRestoreDuration time.Duration
	MusicFadeIn            time.Duration

	// VisibilityThreshold is the intersection ratio that arms the end lock.
	VisibilityThreshold float64
	// EndRelease is the upward distance from the end lock offset that
	// releases the lock.
	EndRelease float64

	// MaxDeviceScale caps the device pixel ratio used for the backing store.
	MaxDeviceScale float64
	// TPS is the host tick rate.
	TPS int

	// Debug enables per-frame stats logging.
	Debug bool
	// LogOutput receives log lines. Nil means os.Stderr.
	LogOutput io.Writer
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Seed:                   1337,
		BlendRate:              DefaultBlendRate,
		SnapEpsilon:            DefaultSnapEpsilon,
		Shooters:               DefaultShooterConfig(),
		ParallaxFrequency:      6,
		ParallaxDamping:        1,
		MusicVolume:            0.35,
		DuckVolume:             0.01,
		DuckDuration:           650 * time.Millisecond,
		RestoreDuration:        900 * time.Millisecond,
		FailureRestoreDuration: 500 * time.Millisecond,
		MusicFadeIn:            1200 * time.Millisecond,
		VisibilityThreshold:    0.55,
		EndRelease:             2,
		MaxDeviceScale:         2,
		TPS:                    60,
	}
}

// LoadConfigEnv returns DefaultConfig overlaid with STARBLOOM_* environment
// variables. Unparseable values are ignored; volumes and ratios are clamped
// to [0, 1].
func LoadConfigEnv() Config {
	return loadConfigEnv(DefaultConfig(), os.Getenv)
}

func loadConfigEnv(cfg Config, getenv func(string) string) Config {
	if v := getenv("STARBLOOM_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Seed = uint32(n)
		}
	}
	if v := getenv("STARBLOOM_BLEND_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.BlendRate = f
		}
	}
	if v := getenv("STARBLOOM_MUSIC_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MusicVolume = clamp01(f)
		}
	}
	if v := getenv("STARBLOOM_DUCK_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DuckVolume = clamp01(f)
		}
	}
	if v := getenv("STARBLOOM_DUCK_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DuckDuration = time.Duration(n) * time.Millisecond
		}
	}
	if v := getenv("STARBLOOM_RESTORE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RestoreDuration = time.Duration(n) * time.Millisecond
		}
	}
	if v := getenv("STARBLOOM_VISIBILITY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.VisibilityThreshold = clamp01(f)
		}
	}
	if v := getenv("STARBLOOM_MAX_DEVICE_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1 {
			cfg.MaxDeviceScale = f
		}
	}
	if v := getenv("STARBLOOM_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	return cfg
}

// Bind registers command-line flags for the commonly tuned fields, using
// the current values as defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.Func("seed", "seed for the forest, stars, and shooters (default "+strconv.FormatUint(uint64(c.Seed), 10)+")", func(v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return err
		}
		c.Seed = uint32(n)
		return nil
	})
	fs.Float64Var(&c.BlendRate, "blend-rate", c.BlendRate, "per-tick scene blend fraction")
	fs.Float64Var(&c.MusicVolume, "music-volume", c.MusicVolume, "music volume after the journey starts")
	fs.Float64Var(&c.DuckVolume, "duck-volume", c.DuckVolume, "music volume under narration")
	fs.DurationVar(&c.DuckDuration, "duck", c.DuckDuration, "duck ramp duration")
	fs.DurationVar(&c.RestoreDuration, "restore", c.RestoreDuration, "restore ramp duration")
	fs.Float64Var(&c.MaxDeviceScale, "max-scale", c.MaxDeviceScale, "device pixel ratio cap")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "log per-frame stats")
}
