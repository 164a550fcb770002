package session

import (
	"context"
	"fmt"
	"time"

	"github.com/guidoenr/hillwave/internal/mode"
	"github.com/guidoenr/hillwave/internal/render"
)

// State of a Visualizer.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Opener starts a pipeline for a source.
type Opener interface {
	Open(ctx context.Context, source string) (Pipeline, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, source string) (Pipeline, error)

func (f OpenerFunc) Open(ctx context.Context, source string) (Pipeline, error) {
	return f(ctx, source)
}

// Visualizer owns at most one Session at a time. All methods must be called
// from the clock's goroutine.
type Visualizer struct {
	clock    Clock
	display  Display
	opener   Opener
	selector *mode.Selector
	cfg      Config
	now      func() time.Time

	current *Session
	nextID  int
	onIdle  func(source string)
}

func NewVisualizer(clock Clock, display Display, opener Opener, selector *mode.Selector, cfg Config) *Visualizer {
	cfg.fill()
	return &Visualizer{
		clock:    clock,
		display:  display,
		opener:   opener,
		selector: selector,
		cfg:      cfg,
		now:      time.Now,
	}
}

// OnIdle registers fn to run after a session ends by itself.
func (v *Visualizer) OnIdle(fn func(source string)) { v.onIdle = fn }

// State reports whether a session is active.
func (v *Visualizer) State() State {
	if v.current != nil {
		return Running
	}
	return Idle
}

// Mode returns the mode of the active session.
func (v *Visualizer) Mode() (mode.VisualMode, bool) {
	if v.current == nil {
		return 0, false
	}
	return v.current.Mode(), true
}

// Current returns the active session or nil.
func (v *Visualizer) Current() *Session { return v.current }

// Play replaces whatever is running with a new session for source. The old
// pipeline is closed before the new one is opened. On failure the visualizer
// is left idle.
func (v *Visualizer) Play(ctx context.Context, source string) error {
	if source == "" {
		return ErrNoSource
	}
	v.teardown()

	pipeline, err := v.opener.Open(ctx, source)
	if err != nil {
		v.cfg.Log.Printf("open %s failed: %v", source, err)
		return fmt.Errorf("open %s: %w", source, err)
	}

	m := v.selector.Next()
	v.nextID++
	sess, err := New(v.nextID, source, pipeline, m, v.display, v.clock, v.cfg)
	if err != nil {
		_ = pipeline.Close()
		return err
	}

	v.current = sess
	sess.Start(v.now())
	v.cfg.Log.Printf("session %d: %s mode=%s hills=%d", sess.ID(), source, m, render.HillCount(m))

	go func() {
		<-sess.Done()
		v.clock.Post(func() { v.ended(sess) })
	}()
	return nil
}

// Stop tears down the active session, if any.
func (v *Visualizer) Stop() {
	v.teardown()
}

func (v *Visualizer) teardown() {
	if v.current == nil {
		return
	}
	sess := v.current
	v.current = nil
	if err := sess.Close(); err != nil {
		v.cfg.Log.Printf("session %d close: %v", sess.ID(), err)
	}
	v.cfg.Log.Printf("session %d stopped after %d frames", sess.ID(), sess.Frames())
}

func (v *Visualizer) ended(sess *Session) {
	if sess != v.current {
		return
	}
	v.cfg.Log.Printf("session %d: %s ended", sess.ID(), sess.Source())
	v.teardown()
	if v.onIdle != nil {
		v.onIdle(sess.Source())
	}
}
