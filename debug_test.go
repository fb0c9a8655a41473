package starbloom

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

// ---- Logger tests -----------------------------------------------------------

func TestLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	l := logger{out: &buf}
	l.logf("voice seek: %v", "eof")
	if got := buf.String(); got != "[starbloom] voice seek: eof\n" {
		t.Errorf("output = %q", got)
	}
}

func TestLogger_DebugfGated(t *testing.T) {
	var buf bytes.Buffer
	l := logger{out: &buf}
	l.debugf("hidden")
	if buf.Len() != 0 {
		t.Errorf("debugf wrote %q with debug off", buf.String())
	}
	l.debug = true
	l.debugf("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debugf output = %q", buf.String())
	}
}

func TestLogger_DefaultsToStderr(t *testing.T) {
	cfg := DefaultConfig()
	if l := newLogger(&cfg); l.out != os.Stderr {
		t.Error("nil LogOutput should default to os.Stderr")
	}
}

func TestDebugStats_AllFieldsLogged(t *testing.T) {
	var buf bytes.Buffer
	l := logger{out: &buf, debug: true}
	var w SceneWeights
	w[SceneSakura] = 1
	l.debugLog(FrameStats{
		SimulateTime: 100 * time.Microsecond,
		DrawTime:     300 * time.Microsecond,
		Vertices:     1234,
		DrawCalls:    3,
		Weights:      w,
	})
	output := buf.String()
	for _, want := range []string{"simulate: 100µs", "draw: 300µs", "total: 400µs", "vertices: 1234", "draw calls: 3"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %q", want, output)
		}
	}
}

func TestDebugStats_SilentWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	l := logger{out: &buf}
	l.debugLog(FrameStats{Vertices: 10})
	if buf.Len() != 0 {
		t.Errorf("debugLog wrote %q with debug off", buf.String())
	}
}
