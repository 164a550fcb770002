package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

// Canvas is a Surface backed by a vector canvas that rasterizes into an RGBA image.
// One canvas unit is one pixel.
type Canvas struct {
	width  int
	height int

	img   *image.RGBA
	c     *canvas.Canvas
	ctx   *canvas.Context
	dirty bool

	background color.Color
}

// NewCanvas creates a Canvas of width x height pixels.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{background: color.Black}
	c.Resize(width, height)
	return c
}

// Resize changes the pixel size and drops anything drawn so far.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == c.width && height == c.height && c.img != nil {
		return
	}
	c.width = width
	c.height = height
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.Clear()
}

// Size implements Surface.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.width), float64(c.height)
}

// Clear implements Surface.
func (c *Canvas) Clear() {
	c.c = canvas.New(float64(c.width), float64(c.height))
	c.ctx = canvas.NewContext(c.c)
	c.dirty = true
}

// FillPolygon implements Surface.
func (c *Canvas) FillPolygon(points []Point, paint Paint) {
	if len(points) < 3 {
		return
	}
	p := &canvas.Path{}
	x, y := c.flip(points[0])
	p.MoveTo(x, y)
	for _, pt := range points[1:] {
		x, y = c.flip(pt)
		p.LineTo(x, y)
	}
	p.Close()

	c.setFill(paint)
	c.ctx.SetStrokeColor(canvas.Transparent)
	c.ctx.DrawPath(0, 0, p)
	c.dirty = true
}

// FillCircle implements Surface.
func (c *Canvas) FillCircle(center Point, radius float64, paint Paint, glow Glow) {
	if radius <= 0 {
		return
	}
	x, y := c.flip(center)
	c.ctx.SetStrokeColor(canvas.Transparent)
	if glow.Blur > 0 {
		for _, halo := range haloRings(glow) {
			c.ctx.SetFillColor(halo.color)
			c.ctx.DrawPath(x, y, canvas.Circle(radius+halo.spread))
		}
	}
	c.setFill(paint)
	c.ctx.DrawPath(x, y, canvas.Circle(radius))
	c.dirty = true
}

// StrokeLine implements Surface.
func (c *Canvas) StrokeLine(from, to Point, width float64, paint Paint, glow Glow) {
	if width <= 0 {
		return
	}
	x0, y0 := c.flip(from)
	x1, y1 := c.flip(to)
	p := &canvas.Path{}
	p.MoveTo(x0, y0)
	p.LineTo(x1, y1)

	c.ctx.SetFillColor(canvas.Transparent)
	c.ctx.SetStrokeCapper(canvas.RoundCap)
	if glow.Blur > 0 {
		for _, halo := range haloRings(glow) {
			c.ctx.SetStrokeColor(halo.color)
			c.ctx.SetStrokeWidth(width + 2*halo.spread)
			c.ctx.DrawPath(0, 0, p)
		}
	}
	c.ctx.SetStrokeColor(paint.Color)
	c.ctx.SetStrokeWidth(width)
	c.ctx.DrawPath(0, 0, p)
	c.ctx.SetStrokeColor(canvas.Transparent)
	c.dirty = true
}

// Image rasterizes everything drawn since the last Clear over the background.
func (c *Canvas) Image() *image.RGBA {
	if !c.dirty {
		return c.img
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
	if c.width > 0 && c.height > 0 {
		r := rasterizer.FromImage(c.img, canvas.DPMM(1.0), canvas.DefaultColorSpace)
		c.c.RenderTo(r)
	}
	c.dirty = false
	return c.img
}

func (c *Canvas) setFill(paint Paint) {
	if paint.Gradient == nil {
		c.ctx.SetFillColor(paint.Color)
		return
	}
	g := paint.Gradient
	fx, fy := c.flip(g.From)
	tx, ty := c.flip(g.To)
	grad := canvas.NewLinearGradient(canvas.Point{X: fx, Y: fy}, canvas.Point{X: tx, Y: ty})
	for _, stop := range g.Stops {
		grad.Add(stop.Offset, premultiply(stop.Color))
	}
	c.ctx.SetFillGradient(grad)
}

// flip converts top-left surface coordinates into the canvas' bottom-left system.
func (c *Canvas) flip(p Point) (float64, float64) {
	return p.X, float64(c.height) - p.Y
}

type haloRing struct {
	spread float64
	color  color.NRGBA
}

// haloRings spreads the glow colour over two widening, fading rings.
func haloRings(g Glow) []haloRing {
	return []haloRing{
		{spread: g.Blur, color: WithAlpha(g.Color, 0.12)},
		{spread: g.Blur * 0.5, color: WithAlpha(g.Color, 0.25)},
	}
}

func premultiply(c color.NRGBA) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
