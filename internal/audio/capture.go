package audio

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/guidoenr/hillwave/internal/analyzer"
)

// Capture wraps a PortAudio input stream and feeds what it hears into an
// analyzer node. It never ends on its own.
type Capture struct {
	stream   *portaudio.Stream
	channels int
	device   *portaudio.DeviceInfo
	node     *analyzer.Node

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// CaptureConfig controls how a Capture instance is created.
type CaptureConfig struct {
	DeviceName string
	BufferSize int
	Channels   int
	FFTSize    int
}

const defaultBufferSize = 4096

// NewCapture opens a PortAudio input stream using the provided configuration.
func NewCapture(cfg CaptureConfig) (*Capture, error) {
	if err := Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}

	device, err := findDevice(cfg.DeviceName)
	if err != nil {
		return nil, err
	}

	sampleRate := device.DefaultSampleRate
	capture := &Capture{
		channels: cfg.Channels,
		device:   device,
		node: analyzer.New(analyzer.Config{
			FFTSize:    cfg.FFTSize,
			SampleRate: sampleRate,
		}),
		done: make(chan struct{}),
	}

	framesPerBuffer := cfg.BufferSize / cfg.Channels
	if framesPerBuffer < 64 {
		framesPerBuffer = portaudio.FramesPerBufferUnspecified
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}, capture.process)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	capture.stream = stream

	if err := capture.stream.Start(); err != nil {
		_ = capture.stream.Close()
		return nil, fmt.Errorf("start stream: %w", err)
	}
	return capture, nil
}

// Close stops and closes the underlying PortAudio stream.
func (c *Capture) Close() error {
	c.closeOnce.Do(func() {
		defer close(c.done)
		if c.stream == nil {
			return
		}
		if err := c.stream.Stop(); err != nil && !errorsIsInvalidStreamState(err) {
			_ = c.stream.Close()
			c.closeErr = err
			return
		}
		c.closeErr = c.stream.Close()
	})
	return c.closeErr
}

// Device returns the PortAudio device associated with the capture stream.
func (c *Capture) Device() *portaudio.DeviceInfo { return c.device }

func (c *Capture) SampleRate() float64           { return c.node.SampleRate() }
func (c *Capture) FrequencyBinCount() int        { return c.node.FrequencyBinCount() }
func (c *Capture) ByteFrequencyData(dst []uint8) { c.node.ByteFrequencyData(dst) }
func (c *Capture) Done() <-chan struct{}         { return c.done }
func (c *Capture) Err() error                    { return nil }
func (c *Capture) process(in []float32)          { c.node.Write(in, c.channels) }

func findDevice(name string) (*portaudio.DeviceInfo, error) {
	if name != "" {
		return findDeviceByName(name)
	}

	if dev, err := portaudio.DefaultInputDevice(); err == nil && dev != nil && dev.MaxInputChannels > 0 {
		return dev, nil
	}

	if host, err := portaudio.DefaultHostApi(); err == nil {
		if host != nil && host.DefaultInputDevice != nil && host.DefaultInputDevice.MaxInputChannels > 0 {
			return host.DefaultInputDevice, nil
		}
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	if candidate := pickBestDevice(toCandidates(devices), defaultInputIndexes()); candidate >= 0 {
		return devices[candidate], nil
	}
	return nil, ErrNoInputDevice
}

func findDeviceByName(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	name = strings.ToLower(name)
	for _, device := range devices {
		if device.MaxInputChannels == 0 {
			continue
		}
		if strings.Contains(strings.ToLower(device.Name), name) {
			return device, nil
		}
	}
	return nil, fmt.Errorf("audio device %q not found", name)
}

// candidate is the part of a device that matters for ranking.
type candidate struct {
	index    int
	name     string
	channels int
}

func toCandidates(devices []*portaudio.DeviceInfo) []candidate {
	out := make([]candidate, len(devices))
	for i, d := range devices {
		if d == nil {
			out[i] = candidate{index: -1}
			continue
		}
		out[i] = candidate{index: d.Index, name: d.Name, channels: d.MaxInputChannels}
	}
	return out
}

func defaultInputIndexes() (input, host int) {
	input, host = -1, -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		input = def.Index
	}
	if h, err := portaudio.DefaultHostApi(); err == nil && h != nil && h.DefaultInputDevice != nil {
		host = h.DefaultInputDevice.Index
	}
	return input, host
}

// pickBestDevice ranks input devices, favouring defaults and loopback-style
// monitors, and returns the position of the winner or -1.
func pickBestDevice(devices []candidate, defaultInput, defaultHost int) int {
	type scored struct {
		pos   int
		name  string
		score int
	}

	var (
		results  []scored
		keywords = []string{"monitor", "loopback", "mix", "stereo mix", "what u hear"}
	)

	for pos, d := range devices {
		if d.channels <= 0 {
			continue
		}

		score := d.channels
		if d.index == defaultInput {
			score += 50
		}
		if d.index == defaultHost {
			score += 40
		}

		lower := strings.ToLower(d.name)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				score += 20
				break
			}
		}
		if strings.Contains(lower, "default") {
			score += 10
		}

		results = append(results, scored{pos: pos, name: lower, score: score})
	}

	if len(results) == 0 {
		return -1
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].name < results[j].name
		}
		return results[i].score > results[j].score
	})
	return results[0].pos
}

// errorsIsInvalidStreamState checks if the provided error stems from stopping an already stopped stream.
func errorsIsInvalidStreamState(err error) bool {
	if err == nil {
		return false
	}
	const invalidStateMsg = "PaErrorCode -9986"
	return strings.Contains(err.Error(), invalidStateMsg)
}

// AutoDetectDevice returns the best available input device PortAudio can find.
func AutoDetectDevice() (*portaudio.DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	return findDevice("")
}
