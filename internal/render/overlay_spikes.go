package render

import (
	"math"

	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/spectrum"
)

// Spike is one radial line of the spikes overlay.
type Spike struct {
	From, To Point
	Width    float64
	Alpha    float64
}

// Spikes fans every fourth bin around an anchor 70% down the surface,
// swaying the whole fan slowly with time.
func Spikes(p params.Parameters, spec spectrum.Spectrum, width, height, t float64) []Spike {
	n := spec.Len()
	if n == 0 {
		return nil
	}
	step := p.SpikeStep
	if step <= 0 {
		step = 1
	}
	anchor := Point{X: width / 2, Y: height * p.SpikeAnchorY}
	sway := math.Sin(t/p.SpikeSwayPeriod) * p.SpikeSway

	spikes := make([]Spike, 0, n/step+1)
	for i := 0; i < n; i += step {
		frac := float64(i) / float64(n)
		angle := frac*2*math.Pi + sway
		v := spec.At(i)
		length := p.SpikeLength + v*p.SpikeGain
		spikes = append(spikes, Spike{
			From:  anchor,
			To:    Point{X: anchor.X + math.Cos(angle)*length, Y: anchor.Y + math.Sin(angle)*length},
			Width: p.SpikeWidth + v/p.SpikeWidthDiv,
			Alpha: clamp01(0.8 - frac),
		})
	}
	return spikes
}

type spikesOverlay struct {
	p params.Parameters
}

func (o *spikesOverlay) Name() string { return "spikes" }

func (o *spikesOverlay) Render(s Surface, spec spectrum.Spectrum, t float64) {
	width, height := s.Size()
	glow := Glow{Color: RGBA(255, 255, 255, 1), Blur: o.p.SpikeGlow}
	for _, spike := range Spikes(o.p, spec, width, height, t) {
		s.StrokeLine(spike.From, spike.To, spike.Width, Solid(RGBA(255, 255, 255, spike.Alpha)), glow)
	}
}
