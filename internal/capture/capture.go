// Package capture turns one listen cycle into a recognized utterance.
//
// Recognition failures are values, not errors: a Listener reports them as a
// Result kind and leaves the user-facing message to the caller. A non-nil
// error from Listen means the input itself is gone and the loop should end.
package capture

import (
	"context"
	"errors"
	"strings"
)

type Kind int

const (
	Ok Kind = iota
	TimedOut
	Unrecognized
	ServiceError
)

func (k Kind) String() string {
	switch k {
	case Ok:
		return "ok"
	case TimedOut:
		return "timed_out"
	case Unrecognized:
		return "unrecognized"
	case ServiceError:
		return "service_error"
	default:
		return "unknown"
	}
}

// ErrExhausted is returned by listeners with a finite input once it runs out.
var ErrExhausted = errors.New("input exhausted")

type Result struct {
	Kind Kind
	Text string // normalized utterance, set only for Ok
	Err  error  // cause of ServiceError or Unrecognized, if any
}

func Heard(text string) Result { return Result{Kind: Ok, Text: text} }

type Listener interface {
	Listen(ctx context.Context) (Result, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, pcm16k []float32) (string, error)
}

type Recorder interface {
	Record(ctx context.Context) ([]float32, error)
}

func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func recognize(ctx context.Context, tr Transcriber, pcm []float32) Result {
	if len(pcm) == 0 {
		return Result{Kind: TimedOut}
	}

	text, err := tr.Transcribe(ctx, pcm)
	if err != nil {
		return Result{Kind: ServiceError, Err: err}
	}

	text = Normalize(text)
	if text == "" {
		return Result{Kind: Unrecognized}
	}

	return Heard(text)
}
