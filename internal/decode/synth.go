package decode

import (
	"io"
	"math"
	"math/rand"
	"time"
)

// Synth generates a drifting three-band test signal. It stands in for a real
// file in demo mode and in tests.
type Synth struct {
	rng        *rand.Rand
	sampleRate int
	remaining  int // frames left, -1 for endless
	t          float64

	phaseBass float64
	phaseMid  float64
	phaseHigh float64
}

// NewSynth returns a stereo synth that ends after duration. A zero duration
// never ends.
func NewSynth(duration time.Duration, sampleRate int, seed int64) *Synth {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	remaining := -1
	if duration > 0 {
		remaining = int(duration.Seconds() * float64(sampleRate))
	}
	return &Synth{
		rng:        rand.New(rand.NewSource(seed)),
		sampleRate: sampleRate,
		remaining:  remaining,
	}
}

func (s *Synth) SampleRate() int { return s.sampleRate }
func (s *Synth) Channels() int   { return 2 }
func (s *Synth) Close() error    { return nil }

func (s *Synth) ReadSamples(dst []float32) (int, error) {
	if s.remaining == 0 {
		return 0, io.EOF
	}
	frames := len(dst) / 2
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	if s.remaining > 0 && frames > s.remaining {
		frames = s.remaining
	}

	dt := 1 / float64(s.sampleRate)
	for i := 0; i < frames; i++ {
		s.t += dt
		s.phaseBass += 2 * math.Pi * 60 * dt
		s.phaseMid += 2 * math.Pi * 440 * dt
		s.phaseHigh += 2 * math.Pi * 3200 * dt

		bass := 0.5 + 0.5*math.Sin(s.t*0.7)
		mid := 0.4 + 0.4*math.Sin(s.t*1.2+0.5)
		treble := 0.3 + 0.3*math.Sin(s.t*2.1+1.0)

		v := 0.45*bass*math.Sin(s.phaseBass) +
			0.3*mid*math.Sin(s.phaseMid) +
			0.15*treble*math.Sin(s.phaseHigh) +
			0.02*(s.rng.Float64()*2-1)

		dst[2*i] = float32(v)
		dst[2*i+1] = float32(v)
	}
	if s.remaining > 0 {
		s.remaining -= frames
	}
	return frames * 2, nil
}
