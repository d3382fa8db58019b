package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"susan/internal/agent"
	"susan/internal/audio"
	"susan/internal/capture"
	"susan/internal/config"
	"susan/internal/duck"
	"susan/internal/ipc"
	"susan/internal/notify"
	"susan/internal/proxy"
	"susan/internal/tts"
	"susan/pkg/stt"
	"susan/pkg/stt/cloud"
	"susan/pkg/vad"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

var (
	envFile   = cli.StringP("env", "e", ".env", "Env file path")
	logLevel  = cli.StringP("log", "l", "info", "Log level")
	input     = cli.StringP("input", "i", "mic", "Utterance source: mic, ipc or replay")
	engine    = cli.StringP("stt", "s", "whisper", "Recognizer: whisper or openai")
	output    = cli.StringP("tts", "t", "espeak", "Speech output: espeak or print")
	replayDir = cli.String("replay", "", "Directory of audio files for --input replay")
	cuePath   = cli.String("cue", "", "mp3 played before every listen")
	duckOther = cli.Bool("duck", false, "Lower other audio streams while speaking")
	socket    = cli.String("socket", ipc.DefaultSocketPath, "Control socket for --input ipc")
)

// closers run in reverse order on shutdown.
type closers []func()

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func main() {
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	if err := run(); err != nil {
		log.Error("Agent stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var cleanup closers
	defer func() { cleanup.run() }()

	listener, err := newListener(cfg, &cleanup)
	if err != nil {
		return err
	}

	id := agent.Identity{Name: cfg.Name, Rate: cfg.Rate, Volume: cfg.Volume}

	speaker, err := newSpeaker(cfg.Language, id, &cleanup)
	if err != nil {
		return err
	}

	session, err := agent.New(&agent.Config{
		Identity: id,
		Listener: listener,
		Speaker:  speaker,
	})
	if err != nil {
		return err
	}

	log.Info("Boot up - successful", "name", cfg.Name, "input", *input, "stt", *engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = session.Run(ctx)
	switch {
	case errors.Is(err, capture.ErrExhausted):
		log.Info("Replay finished")
		return nil
	case errors.Is(err, context.Canceled):
		log.Info("Interrupted")
		return nil
	}
	return err
}

func newTranscriber(cfg config.Config, cleanup *closers) (capture.Transcriber, error) {
	switch *engine {
	case "whisper":
		tr, err := stt.NewTranscriber(cfg.WhisperModel, stt.Options{Language: cfg.Language})
		if err != nil {
			return nil, fmt.Errorf("init whisper: %w", err)
		}
		*cleanup = append(*cleanup, func() { tr.Close() })
		log.Debug("Loaded whisper", "model", cfg.WhisperModel)
		return tr, nil

	case "openai":
		httpClient, err := proxy.NewSocksClient(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		tr, err := cloud.New(cloud.Config{
			APIKey:     cfg.OpenAIKey,
			Language:   cfg.Language,
			HTTPClient: httpClient,
			MaxRetries: 1,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai: %w", err)
		}
		log.Debug("Loaded openai transcriber", "proxy", cfg.Proxy)
		return tr, nil
	}

	return nil, fmt.Errorf("unknown recognizer %q", *engine)
}

func newListener(cfg config.Config, cleanup *closers) (capture.Listener, error) {
	switch *input {
	case "mic":
		tr, err := newTranscriber(cfg, cleanup)
		if err != nil {
			return nil, err
		}

		gate := vad.DefaultConfig()
		gate.Wait = cfg.ListenTimeout

		rec := audio.NewRecorder(gate)
		if err := rec.Init(); err != nil {
			return nil, fmt.Errorf("init audio: %w", err)
		}
		*cleanup = append(*cleanup, rec.Close)

		var opts []capture.MicrophoneOption
		if *cuePath != "" {
			opts = append(opts, capture.WithCue(notify.NewCue(*cuePath).Play))
		}
		return capture.NewMicrophone(rec, tr, opts...), nil

	case "replay":
		if *replayDir == "" {
			return nil, errors.New("--replay is required with --input replay")
		}
		tr, err := newTranscriber(cfg, cleanup)
		if err != nil {
			return nil, err
		}
		r, err := capture.NewReplay(*replayDir, tr)
		if err != nil {
			return nil, err
		}
		log.Info("Replaying", "dir", *replayDir, "files", r.Remaining())
		return r, nil

	case "ipc":
		// typed input has no listen timeout; the agent waits for the next message
		inbox := capture.NewInbox(0)
		srv, err := ipc.StartServer(*socket, func(msg ipc.ControlMessage) {
			switch msg.Cmd {
			case ipc.CmdSay:
				inbox.Push(msg.Text)
			default:
				log.Warn("Unknown command", "cmd", msg.Cmd)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("ipc server: %w", err)
		}
		*cleanup = append(*cleanup, func() { srv.Close() })
		log.Info("Waiting for typed input", "socket", *socket)
		return inbox, nil
	}

	return nil, fmt.Errorf("unknown input %q", *input)
}

func newSpeaker(language string, id agent.Identity, cleanup *closers) (agent.Speaker, error) {
	var speaker agent.Speaker

	switch *output {
	case "espeak":
		e, err := tts.NewEspeak(tts.Voice{Language: language, Rate: id.Rate, Volume: id.Volume})
		if err != nil {
			return nil, err
		}
		*cleanup = append(*cleanup, e.Close)
		speaker = e
	case "print":
		speaker = &tts.Printer{W: os.Stdout, Name: id.Name}
	default:
		return nil, fmt.Errorf("unknown speech output %q", *output)
	}

	if *duckOther {
		self := []string{"susan", "espeak-ng"}
		speaker = duck.NewDucker(nil, self, 10).Wrap(speaker)
	}

	return speaker, nil
}
