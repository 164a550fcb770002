package render

import (
	"fmt"

	"github.com/guidoenr/hillwave/internal/mode"
	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/spectrum"
)

// Overlay draws the foreground pattern over the terrain.
// Implementations read the spectrum and never modify it.
type Overlay interface {
	Name() string
	Render(s Surface, spec spectrum.Spectrum, t float64)
}

type overlayFactory func(p params.Parameters) Overlay

var overlayRegistry = map[mode.VisualMode]overlayFactory{
	mode.Wave:       func(p params.Parameters) Overlay { return &waveOverlay{p: p} },
	mode.Spikes:     func(p params.Parameters) Overlay { return &spikesOverlay{p: p} },
	mode.Blobs:      func(p params.Parameters) Overlay { return &blobsOverlay{p: p} },
	mode.FractalWeb: func(p params.Parameters) Overlay { return &webOverlay{p: p} },
}

// NewOverlay returns the overlay for mode m.
func NewOverlay(m mode.VisualMode, p params.Parameters) (Overlay, error) {
	factory, ok := overlayRegistry[m]
	if !ok {
		return nil, fmt.Errorf("no overlay for %v", m)
	}
	return factory(p), nil
}
