package capture

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"

	"susan/pkg/vad"
)

type Microphone struct {
	rec Recorder
	tr  Transcriber
	cue func() error
}

type MicrophoneOption func(*Microphone)

// WithCue plays f before every listen cycle. Cue failures are logged only.
func WithCue(f func() error) MicrophoneOption {
	return func(m *Microphone) { m.cue = f }
}

func NewMicrophone(rec Recorder, tr Transcriber, opts ...MicrophoneOption) *Microphone {
	m := &Microphone{rec: rec, tr: tr}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Microphone) Listen(ctx context.Context) (Result, error) {
	if m.cue != nil {
		if err := m.cue(); err != nil {
			log.Warn("Failed to play cue", "err", err)
		}
	}

	pcm, err := m.rec.Record(ctx)
	if errors.Is(err, vad.ErrNoSpeech) {
		return Result{Kind: TimedOut}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("record: %w", err)
	}

	log.Debug("Recorded", "samples", len(pcm))

	return recognize(ctx, m.tr, pcm), nil
}
