package render

import (
	"math"

	"github.com/guidoenr/hillwave/internal/mode"
	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/spectrum"
)

// HillLayer is the geometry of one terrain layer for the current frame.
type HillLayer struct {
	Index       int
	BaseHeight  float64
	Amplitude   float64
	SpatialFreq float64
}

// HillCount returns the number of terrain layers drawn in mode m.
func HillCount(m mode.VisualMode) int {
	return 3 + int(m)
}

// Layer computes the base height, amplitude and spatial frequency of layer h.
func Layer(p params.Parameters, m mode.VisualMode, h int, height float64, spec spectrum.Spectrum) HillLayer {
	hf := float64(h)
	return HillLayer{
		Index:       h,
		BaseHeight:  height * (p.HillBaseFraction + p.HillStepFraction*hf),
		Amplitude:   (hf+1)*p.HillAmpBase + spec.At(p.HillSpectrumBin+h*p.HillSpectrumStep)*p.HillAmpGain,
		SpatialFreq: p.HillFreqBase + p.HillFreqStep*hf + p.HillFreqModeStep*float64(m),
	}
}

// Silhouette returns the closed outline of a layer: the crest sampled every
// stride pixels, then down the right edge, along the bottom and back to x=0.
func Silhouette(p params.Parameters, layer HillLayer, width, height float64, spec spectrum.Spectrum, t float64) []Point {
	stride := p.Stride()
	samples := int(math.Ceil(width / stride))
	points := make([]Point, 0, samples+4)
	points = append(points, Point{X: 0, Y: layer.BaseHeight})

	for i := 0; i < samples; i++ {
		x := float64(i) * stride
		points = append(points, Point{X: x, Y: CrestY(p, layer, x, width, spec, t)})
	}

	points = append(points,
		Point{X: width, Y: layer.BaseHeight},
		Point{X: width, Y: height},
		Point{X: 0, Y: height},
	)
	return points
}

// CrestY is the height of a layer's crest at x for elapsed time t in milliseconds.
func CrestY(p params.Parameters, layer HillLayer, x, width float64, spec spectrum.Spectrum, t float64) float64 {
	hf := float64(layer.Index)
	idx := 0
	if width > 0 {
		idx = int(math.Floor(x / width * float64(spec.Len())))
	}
	wave := math.Sin(x*layer.SpatialFreq+t/p.HillWavePeriod+hf*2) * layer.Amplitude
	detail := spec.At(idx) * (p.HillDetailBase + hf*p.HillDetailStep) * math.Sin(t/p.HillDetailPeriod+hf*2)
	return layer.BaseHeight - wave - detail
}

// LayerOpacity is the oscillating opacity applied on top of a layer's gradient.
func LayerOpacity(p params.Parameters, h int, t float64) float64 {
	return p.HillOpacityBase + p.HillOpacitySwing*math.Sin(t/p.HillOpacityPeriod+float64(h))
}

// LayerPaint is the vertical gradient of layer h, faded by opacity.
// Green layers are every even layer, and every layer in wave mode.
func LayerPaint(m mode.VisualMode, layer HillLayer, height, opacity float64) Paint {
	hf := float64(layer.Index)
	var top, bottom Stop
	if m == mode.Wave || layer.Index%2 == 0 {
		top = Stop{Offset: 0, Color: RGBA(50, 255, 120, 0.55-hf*0.1)}
		bottom = Stop{Offset: 1, Color: RGBA(0, 30, 0, 0.3)}
	} else {
		top = Stop{Offset: 0, Color: RGBA(255, 255, 255, 0.5-hf*0.13)}
		bottom = Stop{Offset: 1, Color: RGBA(80, 255, 200, 0.1)}
	}
	top.Color = WithAlpha(top.Color, opacity)
	bottom.Color = WithAlpha(bottom.Color, opacity)
	return VerticalGradient(layer.BaseHeight, height, top, bottom)
}

// Terrain draws the layered hills behind the overlay.
type Terrain struct {
	mode   mode.VisualMode
	params params.Parameters
}

// NewTerrain returns the terrain renderer for mode m.
func NewTerrain(m mode.VisualMode, p params.Parameters) *Terrain {
	return &Terrain{mode: m, params: p}
}

// Layers returns every layer's geometry, back to front.
func (tr *Terrain) Layers(height float64, spec spectrum.Spectrum) []HillLayer {
	count := HillCount(tr.mode)
	layers := make([]HillLayer, count)
	for h := 0; h < count; h++ {
		layers[h] = Layer(tr.params, tr.mode, h, height, spec)
	}
	return layers
}

// Render paints all layers, lowest index first so nearer hills cover farther ones.
func (tr *Terrain) Render(s Surface, spec spectrum.Spectrum, t float64) {
	width, height := s.Size()
	if width <= 0 || height <= 0 {
		return
	}
	for _, layer := range tr.Layers(height, spec) {
		outline := Silhouette(tr.params, layer, width, height, spec, t)
		opacity := LayerOpacity(tr.params, layer.Index, t)
		s.FillPolygon(outline, LayerPaint(tr.mode, layer, height, opacity))
	}
}
