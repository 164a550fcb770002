package render

import (
	"math"

	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/spectrum"
)

// Blob is one floating circle of the blobs overlay.
type Blob struct {
	Center Point
	Radius float64
	Alpha  float64
}

// Blobs places a fixed number of circles on slow orbits across the upper part
// of the surface. Bin 5i lifts blob i and bin 6i inflates it.
func Blobs(p params.Parameters, spec spectrum.Spectrum, width, height, t float64) []Blob {
	count := p.BlobCount
	blobs := make([]Blob, count)
	spacing := width / float64(count+1)
	for i := 0; i < count; i++ {
		fi := float64(i)
		blobs[i] = Blob{
			Center: Point{
				X: spacing*(fi+1) + math.Sin(t/400+fi)*p.BlobOrbitX,
				Y: height*p.BlobBaseY + math.Cos(t/500+fi)*p.BlobOrbitY + spec.At(i*5)*p.BlobLiftGain,
			},
			Radius: p.BlobRadius + spec.At(i*6)*p.BlobRadiusGain,
			Alpha:  0.4 + math.Sin(t/300+fi)*0.2,
		}
	}
	return blobs
}

type blobsOverlay struct {
	p params.Parameters
}

func (o *blobsOverlay) Name() string { return "blobs" }

func (o *blobsOverlay) Render(s Surface, spec spectrum.Spectrum, t float64) {
	width, height := s.Size()
	glow := Glow{Color: glowGreen, Blur: o.p.BlobGlow}
	for _, blob := range Blobs(o.p, spec, width, height, t) {
		s.FillCircle(blob.Center, blob.Radius, Solid(RGBA(50, 255, 120, blob.Alpha)), glow)
	}
}
