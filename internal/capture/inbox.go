package capture

import (
	"context"
	log "log/slog"
	"time"
)

// Inbox is a Listener fed with typed utterances, e.g. from the control socket.
type Inbox struct {
	msgs    chan string
	timeout time.Duration
}

func NewInbox(timeout time.Duration) *Inbox {
	return &Inbox{
		msgs:    make(chan string, 8),
		timeout: timeout,
	}
}

// Push queues text without blocking. It reports false and drops text when
// the queue is full.
func (in *Inbox) Push(text string) bool {
	select {
	case in.msgs <- text:
		return true
	default:
		log.Warn("Inbox full, dropping utterance", "text", text)
		return false
	}
}

func (in *Inbox) Listen(ctx context.Context) (Result, error) {
	var expired <-chan time.Time
	if in.timeout > 0 {
		t := time.NewTimer(in.timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-expired:
		return Result{Kind: TimedOut}, nil
	case text := <-in.msgs:
		text = Normalize(text)
		if text == "" {
			return Result{Kind: Unrecognized}, nil
		}
		return Heard(text), nil
	}
}
