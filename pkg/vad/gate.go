// Package vad decides where an utterance starts and ends in a stream of
// mono PCM frames using a plain RMS energy threshold.
package vad

import (
	"errors"
	"math"
	"time"
)

var ErrNoSpeech = errors.New("no speech before wait timeout")

type Config struct {
	SampleRate int
	FrameSize  int     // samples per frame
	Threshold  float64 // RMS above which a frame counts as speech
	Silence    time.Duration
	Wait       time.Duration // 0 waits forever for speech to start
	MaxLength  time.Duration
}

func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		FrameSize:  320, // 20ms
		Threshold:  0.015,
		Silence:    600 * time.Millisecond,
		Wait:       5 * time.Second,
		MaxLength:  10 * time.Second,
	}
}

func (c Config) FrameDuration() time.Duration {
	return time.Duration(c.FrameSize) * time.Second / time.Duration(c.SampleRate)
}

// frames converts d into a whole number of frames, rounding up.
func (c Config) frames(d time.Duration) int {
	fd := c.FrameDuration()
	if fd <= 0 || d <= 0 {
		return 0
	}
	n := int(d / fd)
	if d%fd != 0 {
		n++
	}
	return n
}

// Gate accumulates frames of one utterance.
type Gate struct {
	cfg Config

	waitFrames    int
	silenceLimit  int
	maxFrames     int
	frames        int
	speechFrames  int
	silenceFrames int
	speaking      bool

	out []float32
}

func NewGate(cfg Config) *Gate {
	return &Gate{
		cfg:          cfg,
		waitFrames:   cfg.frames(cfg.Wait),
		silenceLimit: cfg.frames(cfg.Silence),
		maxFrames:    cfg.frames(cfg.MaxLength),
		out:          make([]float32, 0, cfg.SampleRate*3),
	}
}

// Push feeds the next frame. It reports true once the utterance is
// complete, either after enough trailing silence or at MaxLength.
func (g *Gate) Push(frame []float32) (bool, error) {
	g.frames++

	if RMS(frame) > g.cfg.Threshold {
		g.speaking = true
		g.silenceFrames = 0
		g.speechFrames++
		g.out = append(g.out, frame...)
	} else if g.speaking {
		g.silenceFrames++
		g.speechFrames++
		if g.silenceFrames >= g.silenceLimit {
			return true, nil
		}
		g.out = append(g.out, frame...)
	} else if g.waitFrames > 0 && g.frames >= g.waitFrames {
		return false, ErrNoSpeech
	}

	if g.maxFrames > 0 && g.speechFrames >= g.maxFrames {
		return true, nil
	}

	return false, nil
}

func (g *Gate) Speaking() bool { return g.speaking }

func (g *Gate) Samples() []float32 { return g.out }

func RMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
