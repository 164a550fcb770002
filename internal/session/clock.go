package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// FrameID identifies a pending frame request.
type FrameID uint64

// Clock hands out animation frames. Callbacks registered on the same clock
// never run concurrently.
type Clock interface {
	// RequestFrame schedules fn for the next frame.
	RequestFrame(fn func(now time.Time)) FrameID
	// CancelFrame drops a pending request. Unknown ids are ignored.
	CancelFrame(id FrameID)
	// Post runs fn on the clock's goroutine between frames.
	Post(fn func())
}

// Loop is a Clock driven by a ticker. Everything it runs happens on the
// goroutine that called Run.
type Loop struct {
	interval time.Duration

	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]func(time.Time)

	posts   chan func()
	stopped chan struct{}
}

// NewLoop creates a loop ticking at fps frames per second.
func NewLoop(fps int) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		pending:  make(map[FrameID]func(time.Time)),
		posts:    make(chan func(), 64),
		stopped:  make(chan struct{}),
	}
}

func (l *Loop) RequestFrame(fn func(now time.Time)) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.pending[l.nextID] = fn
	return l.nextID
}

func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	delete(l.pending, id)
	l.mu.Unlock()
}

// Post queues fn. Posts after Run returned are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.posts <- fn:
	case <-l.stopped:
	}
}

// Run drives frames until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.posts:
			fn()
		case now := <-ticker.C:
			l.frame(now)
		}
	}
}

// frame runs the callbacks that were pending when the frame began, in
// request order. Requests made during the frame wait for the next one.
func (l *Loop) frame(now time.Time) {
	l.mu.Lock()
	if len(l.pending) == 0 {
		l.mu.Unlock()
		return
	}
	ids := make([]FrameID, 0, len(l.pending))
	for id := range l.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	l.mu.Unlock()

	for _, id := range ids {
		l.mu.Lock()
		fn, ok := l.pending[id]
		delete(l.pending, id)
		l.mu.Unlock()
		if ok {
			fn(now)
		}
	}
}
