package agent

import (
	"fmt"
	"strings"
	"time"
)

type Reply struct {
	Text string
	Stop bool
}

// Rule pairs a predicate over a normalized utterance with its reply.
type Rule struct {
	Name    string
	Match   func(utterance string) bool
	Respond func() Reply
}

// Contains matches utterances containing any of words.
func Contains(words ...string) func(string) bool {
	return func(u string) bool {
		for _, w := range words {
			if strings.Contains(u, w) {
				return true
			}
		}
		return false
	}
}

const (
	FallbackRule = "fallback"

	jokeText     = "Why don’t scientists trust atoms? Because they make up everything!"
	goodbyeText  = "Goodbye! Have a great day!"
	fallbackText = "I'm not sure how to help with that. Could you please rephrase?"
)

// DefaultRules returns the built-in commands in priority order.
func DefaultRules(id Identity, now func() time.Time) []Rule {
	return []Rule{
		{
			Name:  "time",
			Match: Contains("time"),
			Respond: func() Reply {
				return Reply{Text: fmt.Sprintf("The current time is %s.", now().Format("15:04"))}
			},
		},
		{
			Name:  "name",
			Match: Contains("name"),
			Respond: func() Reply {
				return Reply{Text: fmt.Sprintf("My name is %s, your virtual assistant.", id.Name)}
			},
		},
		{
			Name:    "joke",
			Match:   Contains("joke"),
			Respond: func() Reply { return Reply{Text: jokeText} },
		},
		{
			Name:    "exit",
			Match:   Contains("exit", "quit"),
			Respond: func() Reply { return Reply{Text: goodbyeText, Stop: true} },
		},
	}
}

// Dispatcher evaluates rules in order; the first match wins.
type Dispatcher struct {
	rules    []Rule
	fallback Reply
}

func NewDispatcher(rules []Rule) *Dispatcher {
	return &Dispatcher{
		rules:    rules,
		fallback: Reply{Text: fallbackText},
	}
}

// Dispatch returns the name of the rule that fired and its reply.
func (d *Dispatcher) Dispatch(utterance string) (string, Reply) {
	for _, r := range d.rules {
		if r.Match(utterance) {
			return r.Name, r.Respond()
		}
	}
	return FallbackRule, d.fallback
}
