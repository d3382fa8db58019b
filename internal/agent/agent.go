// Package agent runs the voice loop: greet once, then listen, dispatch and
// answer until the user says exit or quit.
package agent

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"susan/internal/capture"
)

type Identity struct {
	Name   string
	Rate   int     // words per minute
	Volume float64 // 0..1
}

func DefaultIdentity() Identity {
	return Identity{Name: "Susan", Rate: 150, Volume: 1.0}
}

type Speaker interface {
	Speak(ctx context.Context, text string) error
}

type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

var failureText = map[capture.Kind]string{
	capture.TimedOut:     "I didn't hear anything. Please try again.",
	capture.Unrecognized: "I'm sorry, I didn't understand that.",
	capture.ServiceError: "There seems to be a problem with the speech recognition service.",
}

// Greeting picks the salutation for an hour of the day (0-23).
func Greeting(hour int) string {
	part := "evening"
	switch {
	case hour < 12:
		part = "morning"
	case hour < 18:
		part = "afternoon"
	}
	return fmt.Sprintf("Good %s! How can I assist you today?", part)
}

type Config struct {
	Identity Identity
	Listener capture.Listener
	Speaker  Speaker
	Rules    []Rule // nil = DefaultRules
	Clock    func() time.Time
}

// Session owns the engines of one running agent.
type Session struct {
	id         Identity
	listener   capture.Listener
	speaker    Speaker
	dispatcher *Dispatcher
	now        func() time.Time
	state      State
}

func New(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if cfg.Listener == nil {
		return nil, errors.New("listener is nil")
	}
	if cfg.Speaker == nil {
		return nil, errors.New("speaker is nil")
	}

	id := cfg.Identity
	def := DefaultIdentity()
	if id.Name == "" {
		id.Name = def.Name
	}
	if id.Rate <= 0 {
		id.Rate = def.Rate
	}
	if id.Volume <= 0 {
		id.Volume = def.Volume
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules(id, now)
	}

	return &Session{
		id:         id,
		listener:   cfg.Listener,
		speaker:    cfg.Speaker,
		dispatcher: NewDispatcher(rules),
		now:        now,
		state:      Running,
	}, nil
}

func (s *Session) Identity() Identity { return s.id }

func (s *Session) State() State { return s.state }

// Run blocks until the user asks to stop, the context ends or the input
// fails. Recognition failures never end the loop.
func (s *Session) Run(ctx context.Context) error {
	if err := s.speak(ctx, Greeting(s.now().Hour())); err != nil {
		return err
	}

	for s.state == Running {
		text, err := s.listen(ctx)
		if err != nil {
			return err
		}
		if text == "" {
			continue
		}
		if err := s.Process(ctx, text); err != nil {
			return err
		}
	}

	return nil
}

// Process dispatches one utterance and speaks the reply.
func (s *Session) Process(ctx context.Context, utterance string) error {
	rule, reply := s.dispatcher.Dispatch(utterance)
	log.Debug("Dispatched", "rule", rule, "stop", reply.Stop)

	if err := s.speak(ctx, reply.Text); err != nil {
		return err
	}
	if reply.Stop {
		s.state = Stopped
	}
	return nil
}

// listen returns "" for every failed capture after apologizing.
func (s *Session) listen(ctx context.Context) (string, error) {
	log.Info(s.id.Name + " is listening...")

	res, err := s.listener.Listen(ctx)
	if err != nil {
		return "", err
	}

	if res.Kind == capture.Ok {
		log.Info("You said", "text", res.Text)
		return res.Text, nil
	}

	log.Warn("Capture failed", "kind", res.Kind, "err", res.Err)
	if err := s.speak(ctx, failureText[res.Kind]); err != nil {
		return "", err
	}
	return "", nil
}

func (s *Session) speak(ctx context.Context, text string) error {
	log.Debug("Speaking", "text", text)
	if err := s.speaker.Speak(ctx, text); err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}
