package render

import (
	"fmt"

	"github.com/guidoenr/hillwave/internal/mode"
	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/spectrum"
)

// Renderer paints one session's frames: terrain first, then the session's overlay.
type Renderer struct {
	mode    mode.VisualMode
	terrain *Terrain
	overlay Overlay
}

// New creates the renderer for mode m. The overlay is chosen here, once.
func New(m mode.VisualMode, p params.Parameters) (*Renderer, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid visual mode %d", int(m))
	}
	overlay, err := NewOverlay(m, p)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		mode:    m,
		terrain: NewTerrain(m, p),
		overlay: overlay,
	}, nil
}

// Mode returns the visual mode the renderer was built for.
func (r *Renderer) Mode() mode.VisualMode { return r.mode }

// OverlayName returns the active overlay identifier.
func (r *Renderer) OverlayName() string { return r.overlay.Name() }

// Draw clears s and paints a frame for elapsed time t in milliseconds.
// It reports false and draws nothing when the surface has no area.
func (r *Renderer) Draw(s Surface, spec spectrum.Spectrum, t float64) bool {
	if s == nil {
		return false
	}
	width, height := s.Size()
	if width <= 0 || height <= 0 {
		return false
	}
	s.Clear()
	r.terrain.Render(s, spec, t)
	r.overlay.Render(s, spec, t)
	return true
}
