package animate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	log "log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

type Options struct {
	Size   image.Point
	Frames int
	Dir    string        // where frame_NNN.png files are written
	Delay  time.Duration // display time of each frame
}

func DefaultOptions() Options {
	return Options{
		Size:   image.Pt(200, 200),
		Frames: 50,
		Dir:    "frames",
		Delay:  100 * time.Millisecond,
	}
}

func (o Options) validate() error {
	if o.Size.X <= 0 || o.Size.Y <= 0 {
		return fmt.Errorf("invalid size %dx%d", o.Size.X, o.Size.Y)
	}
	if o.Frames <= 0 {
		return errors.New("frame count must be positive")
	}
	if o.Delay < 10*time.Millisecond {
		return fmt.Errorf("delay %s below gif resolution of 10ms", o.Delay)
	}
	return nil
}

// FrameName is the file name of frame i. Indices past 999 get more digits.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%03d.png", i)
}

var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

type Assembler struct {
	fs  afero.Fs
	opt Options
}

func NewAssembler(fs afero.Fs, opt Options) (*Assembler, error) {
	if fs == nil {
		return nil, errors.New("fs is nil")
	}
	if err := opt.validate(); err != nil {
		return nil, err
	}
	return &Assembler{fs: fs, opt: opt}, nil
}

// WriteFrames renders every frame to its own PNG file and returns the
// paths in index order.
func (a *Assembler) WriteFrames(ctx context.Context) ([]string, error) {
	if err := a.fs.MkdirAll(a.opt.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}

	paths := make([]string, 0, a.opt.Frames)
	for i := 0; i < a.opt.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(a.opt.Dir, FrameName(i))
		if err := a.writePNG(path, Frame(a.opt.Size, i)); err != nil {
			return nil, err
		}
		log.Debug("Wrote frame", "path", path)
		paths = append(paths, path)
	}

	return paths, nil
}

func (a *Assembler) writePNG(path string, img image.Image) error {
	f, err := a.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Assemble reads the frame files back in the given order.
func (a *Assembler) Assemble(ctx context.Context, paths []string) (*gif.GIF, error) {
	delay := int(a.opt.Delay / (10 * time.Millisecond))

	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(paths)),
		Delay: make([]int, 0, len(paths)),
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := a.readPNG(path)
		if err != nil {
			return nil, err
		}
		anim.Image = append(anim.Image, toPaletted(img))
		anim.Delay = append(anim.Delay, delay)
	}

	return anim, nil
}

func (a *Assembler) readPNG(path string) (image.Image, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Generate writes the frame files, then the animated GIF at out.
func (a *Assembler) Generate(ctx context.Context, out string) error {
	paths, err := a.WriteFrames(ctx)
	if err != nil {
		return err
	}

	anim, err := a.Assemble(ctx, paths)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := a.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := a.fs.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}

func toPaletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, grayPalette)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			p.SetColorIndex(x, y, g.Y)
		}
	}
	return p
}
