package tts

import (
	"context"
	"fmt"
	"io"
)

// Printer writes replies as text, for machines without an audio output.
type Printer struct {
	W    io.Writer
	Name string
}

func (p *Printer) Speak(_ context.Context, text string) error {
	_, err := fmt.Fprintf(p.W, "%s: %s\n", p.Name, text)
	return err
}
