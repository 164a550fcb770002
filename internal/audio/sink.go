package audio

import (
	"fmt"
	"sync"
	"time"
)

// Sink consumes interleaved float samples. Write blocks long enough to pace
// playback in real time.
type Sink interface {
	Write(samples []float32) error
	Close() error
}

// Output names accepted by NewSink.
const (
	OutputPortAudio = "portaudio"
	OutputOto       = "oto"
	OutputNone      = "none"
)

// NewSink opens the named output for a stream of the given format.
func NewSink(output string, sampleRate, channels int) (Sink, error) {
	switch output {
	case "", OutputPortAudio:
		return NewPortAudioSink(sampleRate, channels)
	case OutputOto:
		return NewOtoSink(sampleRate, channels)
	case OutputNone:
		return NewNullSink(sampleRate, channels), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, output)
	}
}

// NullSink drops samples but sleeps for as long as they would take to play.
// A zero sample rate disables pacing.
type NullSink struct {
	sampleRate int
	channels   int

	mu       sync.Mutex
	deadline time.Time
	closed   chan struct{}
	once     sync.Once
	written  int
}

func NewNullSink(sampleRate, channels int) *NullSink {
	if channels <= 0 {
		channels = 1
	}
	return &NullSink{
		sampleRate: sampleRate,
		channels:   channels,
		closed:     make(chan struct{}),
	}
}

func (s *NullSink) Write(samples []float32) error {
	select {
	case <-s.closed:
		return ErrClosed
	default:
	}

	s.mu.Lock()
	s.written += len(samples)
	if s.sampleRate <= 0 {
		s.mu.Unlock()
		return nil
	}
	now := time.Now()
	if s.deadline.Before(now) {
		s.deadline = now
	}
	frames := len(samples) / s.channels
	s.deadline = s.deadline.Add(time.Duration(frames) * time.Second / time.Duration(s.sampleRate))
	wait := time.Until(s.deadline)
	s.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-s.closed:
		return ErrClosed
	}
}

// Written returns the number of samples accepted so far.
func (s *NullSink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

func (s *NullSink) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}
