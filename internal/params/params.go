package params

import "math"

// Parameters holds the geometry constants shared by the terrain and overlay renderers.
type Parameters struct {
	// Terrain
	TerrainStride     float64
	HillBaseFraction  float64
	HillStepFraction  float64
	HillAmpBase       float64
	HillAmpGain       float64
	HillSpectrumBin   int
	HillSpectrumStep  int
	HillFreqBase      float64
	HillFreqStep      float64
	HillFreqModeStep  float64
	HillDetailBase    float64
	HillDetailStep    float64
	HillWavePeriod    float64
	HillDetailPeriod  float64
	HillOpacityPeriod float64
	HillOpacityBase   float64
	HillOpacitySwing  float64

	// Wave overlay
	WaveSteps      int
	WaveRadius     float64
	WaveGain       float64
	WavePeriod     float64
	WaveDotBase    float64
	WaveDotDivisor float64
	WaveGlow       float64

	// Spikes overlay
	SpikeStep       int
	SpikeAnchorY    float64
	SpikeLength     float64
	SpikeGain       float64
	SpikeSwayPeriod float64
	SpikeSway       float64
	SpikeWidth      float64
	SpikeWidthDiv   float64
	SpikeGlow       float64

	// Blobs overlay
	BlobCount      int
	BlobRadius     float64
	BlobRadiusGain float64
	BlobLiftGain   float64
	BlobBaseY      float64
	BlobOrbitX     float64
	BlobOrbitY     float64
	BlobGlow       float64

	// Fractal web overlay
	WebStep      int
	WebSpreadX   float64
	WebSpreadY   float64
	WebThreshold float64
	WebNodeBase  float64
	WebNodeDiv   float64
	WebLineWidth float64
	WebGlow      float64
}

// Defaults returns the constants tuned for a 256-sample analysis window (128 bins).
func Defaults() Parameters {
	return Parameters{
		TerrainStride:     4,
		HillBaseFraction:  0.35,
		HillStepFraction:  0.13,
		HillAmpBase:       12,
		HillAmpGain:       0.7,
		HillSpectrumBin:   8,
		HillSpectrumStep:  5,
		HillFreqBase:      0.005,
		HillFreqStep:      0.002,
		HillFreqModeStep:  0.001,
		HillDetailBase:    0.3,
		HillDetailStep:    0.08,
		HillWavePeriod:    350,
		HillDetailPeriod:  600,
		HillOpacityPeriod: 400,
		HillOpacityBase:   0.6,
		HillOpacitySwing:  0.08,

		WaveSteps:      256,
		WaveRadius:     180,
		WaveGain:       1.4,
		WavePeriod:     900,
		WaveDotBase:    4,
		WaveDotDivisor: 30,
		WaveGlow:       15,

		SpikeStep:       4,
		SpikeAnchorY:    0.7,
		SpikeLength:     50,
		SpikeGain:       2.5,
		SpikeSwayPeriod: 700,
		SpikeSway:       0.7,
		SpikeWidth:      3,
		SpikeWidthDiv:   60,
		SpikeGlow:       12,

		BlobCount:      6,
		BlobRadius:     50,
		BlobRadiusGain: 0.8,
		BlobLiftGain:   2,
		BlobBaseY:      0.25,
		BlobOrbitX:     80,
		BlobOrbitY:     100,
		BlobGlow:       30,

		WebStep:      10,
		WebSpreadX:   220,
		WebSpreadY:   160,
		WebThreshold: 120,
		WebNodeBase:  10,
		WebNodeDiv:   25,
		WebLineWidth: 2,
		WebGlow:      20,
	}
}

// WaveAngleStep is the angular increment of the wave overlay.
func (p Parameters) WaveAngleStep() float64 {
	steps := p.WaveSteps
	if steps <= 0 {
		steps = 256
	}
	return 2 * math.Pi / float64(steps)
}

// Stride returns the terrain sampling stride, never less than one pixel.
func (p Parameters) Stride() float64 {
	return math.Max(1, p.TerrainStride)
}
