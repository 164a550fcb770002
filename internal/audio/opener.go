package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/guidoenr/hillwave/internal/decode"
)

// Stream is an open source of analysis data: a playing file or a live input.
type Stream interface {
	FrequencyBinCount() int
	ByteFrequencyData(dst []uint8)
	SampleRate() float64
	Done() <-chan struct{}
	Err() error
	Close() error
}

// Source names with special meaning.
const (
	SourceDemo = "demo"
	SourceLive = "live"
)

// OpenerConfig controls how sources are turned into streams.
type OpenerConfig struct {
	Output       string
	Device       string
	FFTSize      int
	ChunkFrames  int
	DemoDuration time.Duration
	Seed         int64
	Log          *log.Logger
}

// Opener turns a source string into a running Stream.
type Opener struct {
	cfg OpenerConfig

	// overridable in tests
	openFile func(path string) (decode.Source, error)
	newSink  func(output string, sampleRate, channels int) (Sink, error)
}

func NewOpener(cfg OpenerConfig) *Opener {
	if cfg.Log == nil {
		cfg.Log = log.New(io.Discard, "", 0)
	}
	if cfg.DemoDuration <= 0 {
		cfg.DemoDuration = 30 * time.Second
	}
	return &Opener{
		cfg:      cfg,
		openFile: decode.Open,
		newSink:  NewSink,
	}
}

// Open starts the named source. "live" or "live:<device>" captures input,
// "demo" plays the built-in synth, anything else is a file path.
func (o *Opener) Open(ctx context.Context, source string) (Stream, error) {
	switch {
	case source == SourceLive || strings.HasPrefix(source, SourceLive+":"):
		device := strings.TrimPrefix(strings.TrimPrefix(source, SourceLive), ":")
		if device == "" {
			device = o.cfg.Device
		}
		capture, err := NewCapture(CaptureConfig{DeviceName: device, FFTSize: o.cfg.FFTSize})
		if err != nil {
			return nil, fmt.Errorf("live capture: %w", err)
		}
		o.cfg.Log.Printf("capturing from %s", capture.Device().Name)
		return capture, nil

	case source == SourceDemo:
		o.cfg.Log.Printf("playing demo synth for %s", o.cfg.DemoDuration)
		return o.play(ctx, decode.NewSynth(o.cfg.DemoDuration, 44100, o.cfg.Seed))

	default:
		src, err := o.openFile(source)
		if err != nil {
			return nil, err
		}
		o.cfg.Log.Printf("playing %s (%d Hz, %d ch)", source, src.SampleRate(), src.Channels())
		return o.play(ctx, src)
	}
}

func (o *Opener) play(ctx context.Context, src decode.Source) (Stream, error) {
	sink, err := o.newSink(o.cfg.Output, src.SampleRate(), src.Channels())
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("audio output: %w", err)
	}
	return NewPipeline(ctx, src, sink, PipelineConfig{
		ChunkFrames: o.cfg.ChunkFrames,
		FFTSize:     o.cfg.FFTSize,
	}), nil
}
