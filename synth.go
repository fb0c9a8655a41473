package starbloom

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Fallback audio used when the host has no music or narration file.

// fade applies a linear attack and release to a stream of total samples.
type fade struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if f.attack > 0 && f.position < f.attack {
			vol = float64(f.position) / float64(f.attack)
		}
		if left := f.total - f.position; f.release > 0 && left < f.release {
			vol = math.Max(0, float64(left)/float64(f.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// gain scales s linearly; zero or less is silent.
func gain(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

func tone(sr beep.SampleRate, freq float64, d, attack, release time.Duration, vol float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("starbloom: tone %.2f Hz: %w", freq, err)
	}
	n := sr.N(d)
	shaped := &fade{streamer: beep.Take(n, sine), attack: sr.N(attack), release: sr.N(release), total: n}
	return gain(shaped, vol), nil
}

var (
	padChord   = []float64{220, 261.63, 329.63, 440}
	chimeNotes = []float64{523.25, 659.25, 783.99, 659.25, 587.33, 523.25}
)

// SynthMusic renders a soft minor-chord pad of length d as 16-bit stereo PCM.
// The pad fades in and out so it loops without a click.
func SynthMusic(sampleRate int, d time.Duration) ([]byte, error) {
	sr := beep.SampleRate(sampleRate)
	voices := make([]beep.Streamer, 0, len(padChord))
	for i, f := range padChord {
		t, err := tone(sr, f, d, d/4, d/4, 0.2/(1+0.4*float64(i)))
		if err != nil {
			return nil, err
		}
		voices = append(voices, t)
	}
	return renderPCM(beep.Mix(voices...), sr.N(d))
}

// SynthNarration renders a chime sequence of length d as 16-bit stereo PCM,
// standing in for a narration recording.
func SynthNarration(sampleRate int, d time.Duration) ([]byte, error) {
	sr := beep.SampleRate(sampleRate)
	step := d / time.Duration(len(chimeNotes))
	notes := make([]beep.Streamer, 0, len(chimeNotes))
	for _, f := range chimeNotes {
		t, err := tone(sr, f, step, step/10, step/2, 0.5)
		if err != nil {
			return nil, err
		}
		notes = append(notes, t)
	}
	return renderPCM(beep.Seq(notes...), sr.N(d))
}

// renderPCM drains s into little-endian 16-bit stereo frames.
func renderPCM(s beep.Streamer, frames int) ([]byte, error) {
	out := make([]byte, 0, frames*bytesPerFrame)
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			for ch := 0; ch < 2; ch++ {
				v := math.Max(-1, math.Min(1, smp[ch]))
				out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*math.MaxInt16)))
			}
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("starbloom: render: %w", err)
	}
	return out, nil
}
