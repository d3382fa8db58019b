package main

import (
	"context"
	"image"
	"os"
	"os/signal"

	"github.com/lmittmann/tint"
	"github.com/spf13/afero"
	cli "github.com/spf13/pflag"
	log "log/slog"

	"susan/pkg/animate"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	def := animate.DefaultOptions()

	out := cli.StringP("out", "o", "animated_black_white.gif", "Output GIF path")
	frames := cli.IntP("frames", "n", def.Frames, "Number of frames")
	width := cli.Int("width", def.Size.X, "Frame width")
	height := cli.Int("height", def.Size.Y, "Frame height")
	dir := cli.StringP("dir", "d", def.Dir, "Directory for per-frame PNG files")
	delay := cli.Duration("delay", def.Delay, "Display time of each frame")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	a, err := animate.NewAssembler(afero.NewOsFs(), animate.Options{
		Size:   image.Pt(*width, *height),
		Frames: *frames,
		Dir:    *dir,
		Delay:  *delay,
	})
	if err != nil {
		log.Error("Invalid options", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("Generating animated GIF...", "frames", *frames, "dir", *dir)

	if err := a.Generate(ctx, *out); err != nil {
		log.Error("Failed to generate GIF", "err", err)
		os.Exit(1)
	}

	log.Info("Animated GIF saved as " + *out)
}
