package vad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameOf(cfg Config, v float32) []float32 {
	f := make([]float32, cfg.FrameSize)
	for i := range f {
		f[i] = v
	}
	return f
}

func TestRMS(t *testing.T) {
	assert.Equal(t, 0.0, RMS(nil))
	assert.InDelta(t, 0.5, RMS([]float32{0.5, -0.5, 0.5, -0.5}), 1e-9)
}

func TestGate_WaitTimeout(t *testing.T) {
	cfg := DefaultConfig()
	g := NewGate(cfg)
	quiet := frameOf(cfg, 0)

	// 5s of 20ms frames
	for i := 0; i < 249; i++ {
		done, err := g.Push(quiet)
		require.NoError(t, err)
		require.False(t, done)
	}

	_, err := g.Push(quiet)
	assert.ErrorIs(t, err, ErrNoSpeech)
	assert.False(t, g.Speaking())
	assert.Empty(t, g.Samples())
}

func TestGate_EndsAfterSilence(t *testing.T) {
	cfg := DefaultConfig()
	g := NewGate(cfg)
	loud := frameOf(cfg, 0.3)
	quiet := frameOf(cfg, 0)

	for i := 0; i < 10; i++ {
		done, err := g.Push(loud)
		require.NoError(t, err)
		require.False(t, done)
	}

	var pushed int
	for {
		done, err := g.Push(quiet)
		require.NoError(t, err)
		pushed++
		if done {
			break
		}
	}

	assert.Equal(t, 30, pushed)
	assert.Len(t, g.Samples(), (10+29)*cfg.FrameSize)
}

func TestGate_MaxLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLength = 200 * time.Millisecond
	g := NewGate(cfg)
	loud := frameOf(cfg, 0.3)

	var pushed int
	for {
		done, err := g.Push(loud)
		require.NoError(t, err)
		pushed++
		if done {
			break
		}
	}

	assert.Equal(t, 10, pushed)
}

func TestGate_NoWaitLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wait = 0
	g := NewGate(cfg)
	quiet := frameOf(cfg, 0)

	for i := 0; i < 1000; i++ {
		_, err := g.Push(quiet)
		require.NoError(t, err)
	}
}
