package starbloom

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestSynthNarrationLength(t *testing.T) {
	const sr = 8000
	pcm, err := SynthNarration(sr, 600*time.Millisecond)
	if err != nil {
		t.Fatalf("SynthNarration: %v", err)
	}
	if len(pcm)%bytesPerFrame != 0 {
		t.Fatalf("len = %d, not a whole number of frames", len(pcm))
	}
	want := beep.SampleRate(sr).N(600 * time.Millisecond)
	if got := len(pcm) / bytesPerFrame; got < want-len(chimeNotes) || got > want {
		t.Errorf("frames = %d, want ~%d", got, want)
	}
}

func TestSynthMusicFadesAtEdges(t *testing.T) {
	pcm, err := SynthMusic(8000, time.Second)
	if err != nil {
		t.Fatalf("SynthMusic: %v", err)
	}
	if len(pcm) < 8*bytesPerFrame {
		t.Fatalf("len = %d, too short", len(pcm))
	}
	first := int16(binary.LittleEndian.Uint16(pcm[0:2]))
	if first != 0 {
		t.Errorf("first sample = %d, want 0 (faded in)", first)
	}
	peak := int16(0)
	for i := 0; i+1 < len(pcm); i += 2 {
		v := int16(binary.LittleEndian.Uint16(pcm[i : i+2]))
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		t.Error("pad is silent")
	}
}

func TestFadeEnvelope(t *testing.T) {
	ones := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
	f := &fade{streamer: ones, attack: 4, release: 4, total: 12}
	buf := make([][2]float64, 12)
	f.Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("sample 0 = %v, want 0", buf[0][0])
	}
	if buf[2][0] != 0.5 {
		t.Errorf("sample 2 = %v, want 0.5", buf[2][0])
	}
	if buf[6][0] != 1 {
		t.Errorf("sample 6 = %v, want 1", buf[6][0])
	}
	if buf[11][0] != 0.25 {
		t.Errorf("sample 11 = %v, want 0.25", buf[11][0])
	}
}
