package analyzer

import (
	"math"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// DefaultFFTSize is the analysis window; it yields 128 frequency bins.
	DefaultFFTSize = 256

	defaultSmoothing   = 0.8
	defaultMinDecibels = -100.0
	defaultMaxDecibels = -30.0
)

// Node keeps the most recent mono samples of a stream and turns them into
// byte frequency magnitudes on demand, the way a browser AnalyserNode does.
type Node struct {
	fftSize     int
	sampleRate  float64
	smoothing   float64
	minDecibels float64
	maxDecibels float64

	mu     sync.Mutex
	buffer []float32
	index  int

	// reader side, only touched by ByteFrequencyData
	window   []float64
	frame    []float64
	smoothed []float64
	mono     []float32
}

// Config controls Node behavior.
type Config struct {
	FFTSize     int
	SampleRate  float64
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

// New creates a Node with browser-compatible defaults.
func New(cfg Config) *Node {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = DefaultFFTSize
	}
	cfg.FFTSize = nextPow2(cfg.FFTSize)
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44_100
	}
	if cfg.Smoothing < 0 || cfg.Smoothing >= 1 {
		cfg.Smoothing = defaultSmoothing
	}
	if cfg.MinDecibels == 0 && cfg.MaxDecibels == 0 {
		cfg.MinDecibels = defaultMinDecibels
		cfg.MaxDecibels = defaultMaxDecibels
	}
	if cfg.MinDecibels >= cfg.MaxDecibels {
		cfg.MinDecibels = defaultMinDecibels
		cfg.MaxDecibels = defaultMaxDecibels
	}

	n := &Node{
		fftSize:     cfg.FFTSize,
		sampleRate:  cfg.SampleRate,
		smoothing:   cfg.Smoothing,
		minDecibels: cfg.MinDecibels,
		maxDecibels: cfg.MaxDecibels,
		buffer:      make([]float32, cfg.FFTSize),
		window:      make([]float64, cfg.FFTSize),
		frame:       make([]float64, cfg.FFTSize),
		smoothed:    make([]float64, cfg.FFTSize/2),
	}
	size := float64(cfg.FFTSize)
	for i := range n.window {
		n.window[i] = blackman(float64(i), size)
	}
	return n
}

// FrequencyBinCount returns half the FFT size.
func (n *Node) FrequencyBinCount() int {
	return n.fftSize / 2
}

// SampleRate returns the rate of the analysed stream.
func (n *Node) SampleRate() float64 {
	return n.sampleRate
}

// Write mixes interleaved samples down to mono and appends them to the analysis window.
func (n *Node) Write(samples []float32, channels int) {
	if len(samples) == 0 {
		return
	}
	if channels <= 1 {
		n.mu.Lock()
		n.mixIntoBuffer(samples)
		n.mu.Unlock()
		return
	}

	frames := len(samples) / channels
	if cap(n.mono) < frames {
		n.mono = make([]float32, frames)
	}
	mono := n.mono[:frames]
	for i := range mono {
		sum := float32(0)
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			sum += samples[base+ch]
		}
		mono[i] = sum / float32(channels)
	}

	n.mu.Lock()
	n.mixIntoBuffer(mono)
	n.mu.Unlock()
}

// Reset zeroes the window and the smoothing history.
func (n *Node) Reset() {
	n.mu.Lock()
	for i := range n.buffer {
		n.buffer[i] = 0
	}
	n.index = 0
	n.mu.Unlock()
	for i := range n.smoothed {
		n.smoothed[i] = 0
	}
}

// ByteFrequencyData fills dst with the current magnitudes scaled to 0..255.
// Bins beyond FrequencyBinCount are zeroed.
func (n *Node) ByteFrequencyData(dst []uint8) {
	n.snapshot(n.frame)
	for i := range n.frame {
		n.frame[i] *= n.window[i]
	}

	spectrum := fft.FFTReal(n.frame)

	bins := n.FrequencyBinCount()
	scale := 1.0 / float64(n.fftSize)
	rangeDB := n.maxDecibels - n.minDecibels
	for k := 0; k < bins; k++ {
		mag := cmag(spectrum[k]) * scale
		n.smoothed[k] = n.smoothing*n.smoothed[k] + (1-n.smoothing)*mag
		if k >= len(dst) {
			continue
		}
		dst[k] = toByte(n.smoothed[k], n.minDecibels, rangeDB)
	}
	for k := bins; k < len(dst); k++ {
		dst[k] = 0
	}
}

func (n *Node) snapshot(out []float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	size := len(n.buffer)
	for i := 0; i < size; i++ {
		out[i] = float64(n.buffer[(n.index+i)%size])
	}
}

func (n *Node) mixIntoBuffer(in []float32) {
	if len(in) >= len(n.buffer) {
		copy(n.buffer, in[len(in)-len(n.buffer):])
		n.index = 0
		return
	}

	if n.index+len(in) <= len(n.buffer) {
		copy(n.buffer[n.index:], in)
		n.index += len(in)
		if n.index == len(n.buffer) {
			n.index = 0
		}
		return
	}

	remaining := len(n.buffer) - n.index
	copy(n.buffer[n.index:], in[:remaining])
	copy(n.buffer, in[remaining:])
	n.index = len(in) - remaining
}

func toByte(mag, minDB, rangeDB float64) uint8 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := 255 * (db - minDB) / rangeDB
	return uint8(clamp(scaled, 0, 255))
}

func blackman(i, size float64) float64 {
	const alpha = 0.16
	a0 := 0.5 * (1 - alpha)
	a1 := 0.5
	a2 := 0.5 * alpha
	x := i / size
	return a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
}

func cmag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
