package render

import (
	"image/color"
	"math"
)

// Point is a position in surface pixels, origin top-left, y growing downwards.
type Point struct {
	X, Y float64
}

// Stop is one colour of a gradient at an offset in [0,1].
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Gradient is a linear gradient between two points.
type Gradient struct {
	From, To Point
	Stops    []Stop
}

// Paint is either a solid colour or a gradient when Gradient is set.
type Paint struct {
	Color    color.NRGBA
	Gradient *Gradient
}

// Solid returns a single-colour paint.
func Solid(c color.NRGBA) Paint {
	return Paint{Color: c}
}

// VerticalGradient runs from top to bottom at any x.
func VerticalGradient(top, bottom float64, stops ...Stop) Paint {
	return Paint{Gradient: &Gradient{
		From:  Point{X: 0, Y: top},
		To:    Point{X: 0, Y: bottom},
		Stops: stops,
	}}
}

// Glow approximates a blurred drop shadow around a shape. Zero Blur disables it.
type Glow struct {
	Color color.NRGBA
	Blur  float64
}

// Surface is a 2D drawing target sized to the viewport.
type Surface interface {
	Size() (width, height float64)
	Clear()
	FillPolygon(points []Point, paint Paint)
	FillCircle(center Point, radius float64, paint Paint, glow Glow)
	StrokeLine(from, to Point, width float64, paint Paint, glow Glow)
}

// RGBA builds a non-premultiplied colour from 0..255 channels and a 0..1 alpha.
// Out of range values are clamped.
func RGBA(r, g, b, a float64) color.NRGBA {
	return color.NRGBA{
		R: channel(r),
		G: channel(g),
		B: channel(b),
		A: channel(clamp01(a) * 255),
	}
}

// WithAlpha scales the alpha of c by factor.
func WithAlpha(c color.NRGBA, factor float64) color.NRGBA {
	c.A = channel(float64(c.A) * clamp01(factor))
	return c
}

// Alpha returns the alpha of c in 0..1.
func Alpha(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

func channel(v float64) uint8 {
	return uint8(math.Round(clampFloat(v, 0, 255)))
}

func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
