package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/guidoenr/hillwave/internal/analyzer"
	"github.com/guidoenr/hillwave/internal/decode"
)

const defaultChunkFrames = 1024

// Pipeline plays a decoded source into a sink and taps every chunk into an
// analyzer node.
type Pipeline struct {
	src  decode.Source
	sink Sink
	node *analyzer.Node

	chunk  int
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error

	closeOnce sync.Once
	closeErr  error
}

// PipelineConfig tunes a Pipeline.
type PipelineConfig struct {
	ChunkFrames int
	FFTSize     int
}

// NewPipeline starts streaming src into sink. The pipeline owns both and
// closes them on Close.
func NewPipeline(ctx context.Context, src decode.Source, sink Sink, cfg PipelineConfig) *Pipeline {
	if cfg.ChunkFrames <= 0 {
		cfg.ChunkFrames = defaultChunkFrames
	}
	channels := src.Channels()
	if channels <= 0 {
		channels = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pipeline{
		src:  src,
		sink: sink,
		node: analyzer.New(analyzer.Config{
			FFTSize:    cfg.FFTSize,
			SampleRate: float64(src.SampleRate()),
		}),
		chunk:  cfg.ChunkFrames * channels,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.run(ctx, channels)
	return p
}

func (p *Pipeline) run(ctx context.Context, channels int) {
	defer close(p.done)

	buf := make([]float32, p.chunk)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := p.src.ReadSamples(buf)
		if n > 0 {
			p.node.Write(buf[:n], channels)
			if werr := p.sink.Write(buf[:n]); werr != nil {
				if ctx.Err() == nil {
					p.setErr(fmt.Errorf("sink: %w", werr))
				}
				return
			}
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			p.setErr(fmt.Errorf("decode: %w", err))
			return
		}
	}
}

func (p *Pipeline) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// FrequencyBinCount is the spectrum length.
func (p *Pipeline) FrequencyBinCount() int { return p.node.FrequencyBinCount() }

// ByteFrequencyData fills dst with the current spectrum.
func (p *Pipeline) ByteFrequencyData(dst []uint8) { p.node.ByteFrequencyData(dst) }

// SampleRate of the analysed stream.
func (p *Pipeline) SampleRate() float64 { return p.node.SampleRate() }

// Done is closed when the source ends, fails, or the pipeline is closed.
func (p *Pipeline) Done() <-chan struct{} { return p.done }

// Err reports why the stream stopped early, nil after a clean end.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close stops streaming and releases the sink and source. Safe to call twice.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		<-p.done
		p.closeErr = errors.Join(p.sink.Close(), p.src.Close())
	})
	return p.closeErr
}
