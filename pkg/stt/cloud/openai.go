// Package cloud recognizes speech through the OpenAI transcription API.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/spf13/afero"
)

const (
	DefaultModel = "whisper-1"
	sampleRate   = 16000
	uploadName   = "utterance.wav"
)

type Config struct {
	APIKey     string
	Model      string
	Language   string // ISO-639-1, empty = detect
	BaseURL    string
	HTTPClient *http.Client
	MaxRetries int
}

type Transcriber struct {
	client   openai.Client
	model    string
	language string
	fs       afero.Fs
}

func New(cfg Config) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing api key")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Transcriber{
		client:   openai.NewClient(opts...),
		model:    model,
		language: cfg.Language,
		fs:       afero.NewMemMapFs(),
	}, nil
}

// Transcribe uploads pcm16k as a 16-bit WAV file and returns the text.
func (t *Transcriber) Transcribe(ctx context.Context, pcm16k []float32) (string, error) {
	if len(pcm16k) == 0 {
		return "", errors.New("no audio samples provided")
	}

	f, err := EncodeWAV(t.fs, uploadName, pcm16k)
	if err != nil {
		return "", err
	}
	defer t.fs.Remove(uploadName)
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(f, uploadName, "audio/wav"),
		Model: openai.AudioModel(t.model),
	}
	if t.language != "" {
		params.Language = openai.String(t.language)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// EncodeWAV writes pcm16k as mono 16-bit WAV into fs and returns the file
// rewound to its start.
func EncodeWAV(fs afero.Fs, name string, pcm16k []float32) (afero.File, error) {
	f, err := fs.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           floatToInt16(pcm16k),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return nil, fmt.Errorf("finish wav: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func floatToInt16(in []float32) []int {
	out := make([]int, len(in))
	for i, x := range in {
		if x > 1 {
			x = 1
		} else if x < -1 {
			x = -1
		}
		out[i] = int(x * 32767)
	}
	return out
}
