package analyzer

import "math"

// Levels summarises a byte spectrum into coarse bands, each in 0..1.
type Levels struct {
	Bass    float64
	Mid     float64
	Treble  float64
	Overall float64
}

// LevelsFrom derives band levels from a byte spectrum of an fftSize/2 bin analysis.
func LevelsFrom(spectrum []uint8, sampleRate float64) Levels {
	if len(spectrum) == 0 {
		return Levels{}
	}
	if sampleRate <= 0 {
		sampleRate = 44_100
	}
	resolution := sampleRate / float64(len(spectrum)*2)

	bass := bandLevel(spectrum, resolution, 20, 250)
	mid := bandLevel(spectrum, resolution, 250, 2000)
	treble := bandLevel(spectrum, resolution, 2000, 8000)

	return Levels{
		Bass:    bass,
		Mid:     mid,
		Treble:  treble,
		Overall: (bass + mid + treble) / 3,
	}
}

func bandLevel(spectrum []uint8, resolution, minHz, maxHz float64) float64 {
	if minHz >= maxHz {
		return 0
	}
	lo := int(math.Floor(minHz / resolution))
	hi := int(math.Ceil(maxHz/resolution)) + 1
	if hi > len(spectrum) {
		hi = len(spectrum)
	}
	if lo >= hi {
		return 0
	}
	values := make([]float64, 0, hi-lo)
	for _, v := range spectrum[lo:hi] {
		values = append(values, float64(v)/255)
	}
	return clamp(average(values), 0, 1)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
