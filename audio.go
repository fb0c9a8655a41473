package starbloom

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// DefaultSampleRate is the audio context rate used by the host.
const DefaultSampleRate = 44100

// bytesPerFrame is one 16-bit stereo sample frame.
const bytesPerFrame = 4

// audioContext returns the process audio context, creating it on first use.
func audioContext(sampleRate int) *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	return audio.NewContext(sampleRate)
}

// DecodeAudio decodes a WAV or MP3 file by extension into a seekable 16-bit
// stereo stream at sampleRate. It returns the stream and its length in bytes.
func DecodeAudio(name string, data []byte, sampleRate int) (io.ReadSeeker, int64, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
		if err != nil {
			return nil, 0, fmt.Errorf("starbloom: decode %s: %w", name, err)
		}
		return s, s.Length(), nil
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
		if err != nil {
			return nil, 0, fmt.Errorf("starbloom: decode %s: %w", name, err)
		}
		return s, s.Length(), nil
	default:
		return nil, 0, fmt.Errorf("starbloom: decode %s: unsupported format", name)
	}
}

// PlayerChannel is a MediaChannel backed by an ebiten audio player.
// Completion is detected by Poll, which the host calls once per tick.
type PlayerChannel struct {
	name    string
	player  *audio.Player
	loop    bool
	volume  float64
	muted   bool
	playing bool
	closed  bool
	onEnded func()
}

// NewPlayerChannel wraps a decoded stream of length bytes. Looping channels
// repeat forever and never report completion.
func NewPlayerChannel(name string, sampleRate int, src io.ReadSeeker, length int64, loop bool) (*PlayerChannel, error) {
	ctx := audioContext(sampleRate)
	var r io.Reader = src
	if loop {
		r = audio.NewInfiniteLoop(src, length)
	}
	p, err := ctx.NewPlayer(r)
	if err != nil {
		return nil, fmt.Errorf("starbloom: %s player: %w", name, err)
	}
	c := &PlayerChannel{name: name, player: p, loop: loop, volume: 1}
	c.apply()
	return c, nil
}

// NewPCMChannel wraps raw 16-bit little-endian stereo PCM.
func NewPCMChannel(name string, sampleRate int, pcm []byte, loop bool) (*PlayerChannel, error) {
	return NewPlayerChannel(name, sampleRate, bytes.NewReader(pcm), int64(len(pcm)), loop)
}

func (c *PlayerChannel) apply() {
	if c.muted {
		c.player.SetVolume(0)
		return
	}
	c.player.SetVolume(c.volume)
}

func (c *PlayerChannel) Play() error {
	if c.closed {
		return ErrChannelClosed
	}
	c.player.Play()
	c.playing = true
	return nil
}

func (c *PlayerChannel) Pause() {
	if c.closed {
		return
	}
	c.player.Pause()
	c.playing = false
}

func (c *PlayerChannel) Paused() bool { return !c.playing }

func (c *PlayerChannel) Seek(pos time.Duration) error {
	if c.closed {
		return ErrChannelClosed
	}
	if err := c.player.SetPosition(pos); err != nil {
		return fmt.Errorf("starbloom: %s seek: %w", c.name, err)
	}
	return nil
}

func (c *PlayerChannel) Volume() float64 { return c.volume }

func (c *PlayerChannel) SetVolume(v float64) {
	c.volume = clamp01(v)
	if !c.closed {
		c.apply()
	}
}

func (c *PlayerChannel) SetMuted(muted bool) {
	c.muted = muted
	if !c.closed {
		c.apply()
	}
}

func (c *PlayerChannel) Muted() bool { return c.muted }

func (c *PlayerChannel) OnEnded(fn func()) { c.onEnded = fn }

// Poll fires the completion callback once when a playing one-shot channel
// has run out.
func (c *PlayerChannel) Poll() {
	if c.closed || c.loop || !c.playing || c.player.IsPlaying() {
		return
	}
	c.playing = false
	if c.onEnded != nil {
		c.onEnded()
	}
}

// Close releases the player. Further Play and Seek calls fail with
// ErrChannelClosed.
func (c *PlayerChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.playing = false
	return c.player.Close()
}
