package session

import (
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"github.com/guidoenr/hillwave/internal/analyzer"
	"github.com/guidoenr/hillwave/internal/mode"
	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/render"
	"github.com/guidoenr/hillwave/internal/spectrum"
)

// Pipeline is an open audio stream the session reads spectra from.
type Pipeline interface {
	FrequencyBinCount() int
	ByteFrequencyData(dst []uint8)
	Done() <-chan struct{}
	Close() error
}

// Display is where frames end up.
type Display interface {
	// Viewport returns the drawable size in pixels. A non-positive size means
	// the surface is not available right now.
	Viewport() (width, height int)
	Present(img image.Image, status string) error
	Clear(hint string) error
}

// Profiler receives per-tick section timings. Optional.
type Profiler interface {
	BeginFrame()
	MarkSection(name string)
	EndFrame()
}

// Config is shared by every session a Visualizer creates.
type Config struct {
	Params   params.Parameters
	Status   bool
	Hint     string
	Log      *log.Logger
	Profiler Profiler
	// OnDisplayError is called from the clock goroutine when Present fails.
	OnDisplayError func(error)
}

// DefaultHint is shown while nothing is playing.
const DefaultHint = "waiting for audio · press n to play, q to quit"

func (c *Config) fill() {
	if c.Params == (params.Parameters{}) {
		c.Params = params.Defaults()
	}
	if c.Log == nil {
		c.Log = log.New(io.Discard, "", 0)
	}
	if c.Hint == "" {
		c.Hint = DefaultHint
	}
}

// Session draws one pipeline with one mode until it is closed.
type Session struct {
	id       int
	source   string
	cfg      Config
	pipeline Pipeline
	mode     mode.VisualMode
	display  Display

	sampler   *spectrum.Sampler
	renderer  *render.Renderer
	canvas    *render.Canvas
	scheduler *Scheduler
	started   time.Time

	frames  int
	skipped int
	closed  bool
}

// New wires a session around an already open pipeline. Nothing runs until Start.
func New(id int, source string, pipeline Pipeline, m mode.VisualMode, display Display, clock Clock, cfg Config) (*Session, error) {
	cfg.fill()
	renderer, err := render.New(m, cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	return &Session{
		id:        id,
		source:    source,
		cfg:       cfg,
		pipeline:  pipeline,
		mode:      m,
		display:   display,
		sampler:   spectrum.NewSampler(pipeline),
		renderer:  renderer,
		canvas:    render.NewCanvas(0, 0),
		scheduler: NewScheduler(clock),
	}, nil
}

// Start records the start time and begins ticking.
func (s *Session) Start(now time.Time) {
	if s.closed {
		return
	}
	s.started = now
	s.scheduler.Start(s.tick)
}

func (s *Session) ID() int               { return s.id }
func (s *Session) Source() string        { return s.source }
func (s *Session) Mode() mode.VisualMode { return s.mode }
func (s *Session) Running() bool         { return s.scheduler.Running() }
func (s *Session) Frames() int           { return s.frames }
func (s *Session) Skipped() int          { return s.skipped }
func (s *Session) Done() <-chan struct{} { return s.pipeline.Done() }
func (s *Session) Closed() bool          { return s.closed }

func (s *Session) tick(now time.Time) {
	p := s.cfg.Profiler
	if p != nil {
		p.BeginFrame()
		defer p.EndFrame()
	}

	w, h := s.display.Viewport()
	if w <= 0 || h <= 0 {
		s.skipped++
		return
	}
	s.canvas.Resize(w, h)

	spec := s.sampler.Sample()
	if p != nil {
		p.MarkSection("sample")
	}

	t := float64(now.Sub(s.started)) / float64(time.Millisecond)
	if !s.renderer.Draw(s.canvas, spec, t) {
		s.skipped++
		return
	}
	img := s.canvas.Image()
	if p != nil {
		p.MarkSection("draw")
	}

	status := ""
	if s.cfg.Status {
		status = s.status(now, spec)
	}
	if err := s.display.Present(img, status); err != nil {
		s.cfg.Log.Printf("present: %v", err)
		if s.cfg.OnDisplayError != nil {
			s.cfg.OnDisplayError(err)
		}
		return
	}
	if p != nil {
		p.MarkSection("present")
	}
	s.frames++
}

func (s *Session) status(now time.Time, spec spectrum.Spectrum) string {
	rate := 0.0
	if r, ok := s.pipeline.(interface{ SampleRate() float64 }); ok {
		rate = r.SampleRate()
	}
	lv := analyzer.LevelsFrom(spec, rate)
	elapsed := now.Sub(s.started).Truncate(time.Second)
	return fmt.Sprintf("%s · %s · %d hills · %s | bass %.2f mid %.2f treble %.2f",
		s.source, s.mode, render.HillCount(s.mode), elapsed, lv.Bass, lv.Mid, lv.Treble)
}

// Close stops ticking, closes the pipeline and clears the display. Later
// calls do nothing.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.scheduler.Stop()
	err := s.pipeline.Close()
	if cerr := s.display.Clear(s.cfg.Hint); cerr != nil {
		s.cfg.Log.Printf("clear display: %v", cerr)
	}
	return err
}
