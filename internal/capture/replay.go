package capture

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"sort"

	"susan/pkg/audioconv"
)

// Replay recognizes the audio files of a directory, one per Listen, in
// lexical order.
type Replay struct {
	files []string
	next  int
	tr    Transcriber
	opt   audioconv.Options
}

func NewReplay(dir string, tr Transcriber) (*Replay, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read replay dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !audioconv.Supported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return &Replay{files: files, tr: tr}, nil
}

func (r *Replay) Remaining() int { return len(r.files) - r.next }

func (r *Replay) Listen(ctx context.Context) (Result, error) {
	if r.next >= len(r.files) {
		return Result{}, ErrExhausted
	}

	path := r.files[r.next]
	r.next++

	log.Debug("Replaying", "file", path)

	pcm, err := audioconv.ConvertFileToPCM16k(ctx, path, r.opt)
	if err != nil {
		return Result{Kind: Unrecognized, Err: err}, nil
	}

	return recognize(ctx, r.tr, pcm), nil
}
