// Package animate draws a growing, travelling circle over slanted guide
// lines and assembles the frames into an animated GIF.
package animate

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

const (
	BaseRadius   = 20
	RadiusPeriod = 30
	StartX       = 50
	StepX        = 5
	LineSpacing  = 20
	SlantPeriod  = 20
)

var (
	Background = color.Gray{Y: 255}
	Ink        = color.Gray{Y: 0}
	Guide      = color.Gray{Y: 128}
)

// Frame renders frame index of the animation. The result depends only on
// size and index. The circle keeps moving right as index grows and is
// clipped once it leaves the canvas.
func Frame(size image.Point, index int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	r := BaseRadius + index%RadiusPeriod
	fillCircle(img, StartX+StepX*index, size.Y/2, r, Ink)

	slant := index % SlantPeriod
	for x := 0; x < size.X; x += LineSpacing {
		drawLine(img, x, 0, x+slant, size.Y, Guide)
	}

	return img
}

func fillCircle(img *image.Gray, cx, cy, r int, c color.Gray) {
	b := img.Bounds()
	y0, y1 := max(cy-r, b.Min.Y), min(cy+r, b.Max.Y-1)

	for y := y0; y <= y1; y++ {
		dy := y - cy
		span := int(math.Sqrt(float64(r*r - dy*dy)))
		x0, x1 := max(cx-span, b.Min.X), min(cx+span, b.Max.X-1)
		for x := x0; x <= x1; x++ {
			img.SetGray(x, y, c)
		}
	}
}

// drawLine is Bresenham's algorithm; points outside img are dropped.
func drawLine(img *image.Gray, x0, y0, x1, y1 int, c color.Gray) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		img.SetGray(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
