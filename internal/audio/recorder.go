package audio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"susan/pkg/vad"
)

// Recorder captures single utterances from the default input device.
type Recorder struct {
	cfg vad.Config
}

func NewRecorder(cfg vad.Config) *Recorder { return &Recorder{cfg: cfg} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record blocks until one utterance has been heard. It returns
// vad.ErrNoSpeech when nothing was said within the configured wait.
func (r *Recorder) Record(ctx context.Context) ([]float32, error) {
	buf := make([]float32, r.cfg.FrameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(r.cfg.SampleRate), len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	defer stream.Stop()

	gate := vad.NewGate(r.cfg)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("read input stream: %w", err)
		}

		done, err := gate.Push(buf)
		if err != nil {
			return nil, err
		}
		if done {
			return gate.Samples(), nil
		}
	}
}
