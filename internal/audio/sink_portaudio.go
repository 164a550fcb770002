package audio

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

const outputFramesPerBuffer = 1024

// PortAudioSink plays through the default output device using a blocking stream.
type PortAudioSink struct {
	stream *portaudio.Stream
	buf    []float32
}

func NewPortAudioSink(sampleRate, channels int) (*PortAudioSink, error) {
	if err := Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	if channels <= 0 {
		channels = 2
	}

	sink := &PortAudioSink{buf: make([]float32, outputFramesPerBuffer*channels)}
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), outputFramesPerBuffer, &sink.buf)
	if err != nil {
		return nil, fmt.Errorf("open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("start output stream: %w", err)
	}
	sink.stream = stream
	return sink, nil
}

func (s *PortAudioSink) Write(samples []float32) error {
	for len(samples) > 0 {
		n := copy(s.buf, samples)
		for i := n; i < len(s.buf); i++ {
			s.buf[i] = 0
		}
		if err := s.stream.Write(); err != nil && !errors.Is(err, portaudio.OutputUnderflowed) {
			return fmt.Errorf("write output stream: %w", err)
		}
		samples = samples[n:]
	}
	return nil
}

func (s *PortAudioSink) Close() error {
	if s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil && !errorsIsInvalidStreamState(err) {
		_ = s.stream.Close()
		return err
	}
	return s.stream.Close()
}
