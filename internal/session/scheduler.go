package session

import "time"

// Scheduler repeats a tick once per frame until stopped. It must be used from
// the clock's goroutine.
type Scheduler struct {
	clock   Clock
	tick    func(now time.Time)
	running bool
	pending bool
	frame   FrameID
}

func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Start begins ticking. Starting a running scheduler does nothing.
func (s *Scheduler) Start(tick func(now time.Time)) {
	if s.running {
		return
	}
	s.tick = tick
	s.running = true
	s.request()
}

// Stop cancels the pending frame. No tick runs after Stop returns. Calling it
// again, or before Start, is a no-op.
func (s *Scheduler) Stop() {
	s.running = false
	if s.pending {
		s.clock.CancelFrame(s.frame)
		s.pending = false
	}
}

// Running reports whether ticks are being scheduled.
func (s *Scheduler) Running() bool { return s.running }

func (s *Scheduler) request() {
	s.frame = s.clock.RequestFrame(s.onFrame)
	s.pending = true
}

func (s *Scheduler) onFrame(now time.Time) {
	s.pending = false
	if !s.running {
		return
	}
	s.tick(now)
	// tick may have stopped us
	if s.running && !s.pending {
		s.request()
	}
}
