// Package spectrum provides the per-frame frequency snapshot shared by the renderers.
package spectrum

// DefaultBins matches a 256-sample analysis window.
const DefaultBins = 128

// Spectrum is one frame of byte magnitudes ordered from low to high frequency.
// Renderers treat it as read-only.
type Spectrum []uint8

// At returns bin i as a float, or 0 when i is outside the spectrum.
func (s Spectrum) At(i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return float64(s[i])
}

// Len returns the number of bins.
func (s Spectrum) Len() int { return len(s) }

// Node is the analysis node a Sampler reads from.
type Node interface {
	FrequencyBinCount() int
	ByteFrequencyData(dst []uint8)
}

// Sampler takes one snapshot per frame from an analysis node.
type Sampler struct {
	node Node
	bins int
}

// NewSampler binds a sampler to node. A nil node produces silent frames of DefaultBins.
func NewSampler(node Node) *Sampler {
	bins := DefaultBins
	if node != nil {
		if n := node.FrequencyBinCount(); n > 0 {
			bins = n
		}
	}
	return &Sampler{node: node, bins: bins}
}

// Bins returns the snapshot length.
func (s *Sampler) Bins() int { return s.bins }

// Sample returns a fresh snapshot. Earlier snapshots are never written again.
func (s *Sampler) Sample() Spectrum {
	out := make(Spectrum, s.bins)
	if s.node != nil {
		s.node.ByteFrequencyData(out)
	}
	return out
}
