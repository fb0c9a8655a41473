package starbloom

import (
	"fmt"
	"io"
	"os"
	"time"
)

// logger writes prefixed lines to a configurable writer.
type logger struct {
	out   io.Writer
	debug bool
}

func newLogger(cfg *Config) logger {
	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}
	return logger{out: out, debug: cfg.Debug}
}

func (l logger) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(l.out, "[starbloom] "+format+"\n", args...)
}

// debugf logs only in debug mode.
func (l logger) debugf(format string, args ...any) {
	if !l.debug {
		return
	}
	l.logf(format, args...)
}

// FrameStats holds per-frame timing and draw metrics.
type FrameStats struct {
	SimulateTime time.Duration
	DrawTime     time.Duration
	Vertices     int
	DrawCalls    int
	Weights      SceneWeights
}

// debugLog prints frame stats when debug mode is on.
func (l logger) debugLog(stats FrameStats) {
	if !l.debug {
		return
	}
	total := stats.SimulateTime + stats.DrawTime
	l.logf("simulate: %v | draw: %v | total: %v",
		stats.SimulateTime, stats.DrawTime, total)
	l.logf("vertices: %d | draw calls: %d | weights: %v",
		stats.Vertices, stats.DrawCalls, stats.Weights)
}
