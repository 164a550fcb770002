package session

import (
	"context"
	"fmt"
	"image"
	"sort"
	"sync"
	"testing"
	"time"
)

// manualClock runs frames and posts only when the test asks.
type manualClock struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]func(time.Time)
	posts   []func()
	now     time.Time
}

func newManualClock() *manualClock {
	return &manualClock{
		pending: make(map[FrameID]func(time.Time)),
		now:     time.Unix(0, 0),
	}
}

func (c *manualClock) RequestFrame(fn func(time.Time)) FrameID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.pending[c.next] = fn
	return c.next
}

func (c *manualClock) CancelFrame(id FrameID) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *manualClock) Post(fn func()) {
	c.mu.Lock()
	c.posts = append(c.posts, fn)
	c.mu.Unlock()
}

// Frame advances time by one 60 fps frame and runs what was pending.
func (c *manualClock) Frame() {
	c.mu.Lock()
	c.now = c.now.Add(time.Second / 60)
	now := c.now
	ids := make([]FrameID, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(time.Time), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.pending[id])
		delete(c.pending, id)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(now)
	}
}

func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// WaitPosts blocks until n posts are queued, then runs them.
func (c *manualClock) WaitPosts(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.mu.Lock()
		ready := len(c.posts) >= n
		c.mu.Unlock()
		if ready {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d posts", n)
		}
		time.Sleep(time.Millisecond)
	}
	c.mu.Lock()
	posts := c.posts
	c.posts = nil
	c.mu.Unlock()
	for _, fn := range posts {
		fn()
	}
}

type fakeDisplay struct {
	width, height int
	presents      int
	statuses      []string
	clears        []string
	lastSize      image.Point
	presentErr    error
}

func newFakeDisplay() *fakeDisplay { return &fakeDisplay{width: 64, height: 48} }

func (d *fakeDisplay) Viewport() (int, int) { return d.width, d.height }

func (d *fakeDisplay) Present(img image.Image, status string) error {
	if d.presentErr != nil {
		return d.presentErr
	}
	d.presents++
	d.statuses = append(d.statuses, status)
	d.lastSize = img.Bounds().Size()
	return nil
}

func (d *fakeDisplay) Clear(hint string) error {
	d.clears = append(d.clears, hint)
	return nil
}

// journal records pipeline lifecycle events across fakes.
type journal struct {
	mu     sync.Mutex
	events []string
	open   int
	peak   int
}

func (j *journal) add(event string, delta int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)
	j.open += delta
	if j.open > j.peak {
		j.peak = j.open
	}
}

func (j *journal) snapshot() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.events...)
}

type fakePipeline struct {
	name    string
	journal *journal
	bins    int
	level   uint8

	done     chan struct{}
	doneOnce sync.Once
	mu       sync.Mutex
	closes   int
}

func (p *fakePipeline) FrequencyBinCount() int { return p.bins }

func (p *fakePipeline) ByteFrequencyData(dst []uint8) {
	for i := range dst {
		dst[i] = p.level
	}
}

func (p *fakePipeline) Done() <-chan struct{} { return p.done }

// End simulates the stream reaching its natural end.
func (p *fakePipeline) End() { p.doneOnce.Do(func() { close(p.done) }) }

func (p *fakePipeline) Close() error {
	p.mu.Lock()
	p.closes++
	first := p.closes == 1
	p.mu.Unlock()
	if first {
		p.journal.add("close "+p.name, -1)
	}
	p.End()
	return nil
}

func (p *fakePipeline) Closes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closes
}

type fakeOpener struct {
	journal   *journal
	pipelines map[string]*fakePipeline
	fail      map[string]error
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{
		journal:   &journal{},
		pipelines: make(map[string]*fakePipeline),
		fail:      make(map[string]error),
	}
}

func (o *fakeOpener) Open(_ context.Context, source string) (Pipeline, error) {
	if err := o.fail[source]; err != nil {
		o.journal.add("fail "+source, 0)
		return nil, err
	}
	p := &fakePipeline{
		name:    fmt.Sprintf("%s#%d", source, len(o.pipelines)+1),
		journal: o.journal,
		bins:    128,
		level:   128,
		done:    make(chan struct{}),
	}
	o.pipelines[p.name] = p
	o.journal.add("open "+p.name, 1)
	return p, nil
}

type recordingProfiler struct {
	begins, ends int
	sections     []string
}

func (p *recordingProfiler) BeginFrame()             { p.begins++ }
func (p *recordingProfiler) MarkSection(name string) { p.sections = append(p.sections, name) }
func (p *recordingProfiler) EndFrame()               { p.ends++ }
