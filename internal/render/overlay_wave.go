package render

import (
	"math"

	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/spectrum"
)

var glowGreen = RGBA(0x33, 0xff, 0x77, 1)

// WaveDot is one point of the wave ring.
type WaveDot struct {
	Center Point
	Radius float64
	Value  float64
}

// WaveDots walks a full circle around the surface centre, pushing each dot
// outwards by the magnitude of the bin its angle maps to.
func WaveDots(p params.Parameters, spec spectrum.Spectrum, width, height, t float64) []WaveDot {
	step := p.WaveAngleStep()
	cx, cy := width/2, height/2
	rotation := t / p.WavePeriod
	n := float64(spec.Len())

	dots := make([]WaveDot, 0, p.WaveSteps+1)
	for a := 0.0; a < 2*math.Pi; a += step {
		idx := int(math.Floor(a / (2 * math.Pi) * n))
		v := spec.At(idx)
		r := p.WaveRadius + v*p.WaveGain
		dots = append(dots, WaveDot{
			Center: Point{X: cx + math.Cos(a+rotation)*r, Y: cy + math.Sin(a+rotation)*r},
			Radius: p.WaveDotBase + v/p.WaveDotDivisor,
			Value:  v,
		})
	}
	return dots
}

type waveOverlay struct {
	p params.Parameters
}

func (o *waveOverlay) Name() string { return "wave" }

func (o *waveOverlay) Render(s Surface, spec spectrum.Spectrum, t float64) {
	width, height := s.Size()
	glow := Glow{Color: glowGreen, Blur: o.p.WaveGlow}
	for _, dot := range WaveDots(o.p, spec, width, height, t) {
		fill := Solid(RGBA(180+dot.Value, 255, 120+dot.Value, 0.8))
		s.FillCircle(dot.Center, dot.Radius, fill, glow)
	}
}
