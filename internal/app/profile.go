package app

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// profiler writes per-frame section timings as CSV lines.
type profiler struct {
	mu    sync.Mutex
	out   io.Writer
	start time.Time
	last  time.Time
	now   func() time.Time
}

func newProfiler(out io.Writer) *profiler {
	if out == nil {
		return nil
	}
	p := &profiler{out: out, now: time.Now}
	fmt.Fprintln(p.out, "timestamp,section,delta_ms")
	return p
}

func (p *profiler) BeginFrame() {
	now := p.now()
	p.start = now
	p.last = now
	p.log(now, "frame_start", 0)
}

func (p *profiler) MarkSection(name string) {
	now := p.now()
	delta := now.Sub(p.last).Seconds() * 1000
	p.last = now
	p.log(now, name, delta)
}

func (p *profiler) EndFrame() {
	now := p.now()
	p.log(now, "frame_total", now.Sub(p.start).Seconds()*1000)
}

func (p *profiler) log(at time.Time, section string, deltaMs float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s,%s,%.3f\n", at.Format(time.RFC3339Nano), section, deltaMs)
}
