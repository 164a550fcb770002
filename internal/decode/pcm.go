package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmReader is what the go-audio wav and aiff decoders have in common.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// intSource converts go-audio integer PCM buffers to floats.
type intSource struct {
	dec        pcmReader
	sampleRate int
	channels   int
	scale      float32
	offset     int // unsigned 8-bit WAV is centred on 128
	intBuf     *goaudio.IntBuffer
}

func newIntSource(dec pcmReader, bitDepth int) (*intSource, error) {
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrInvalidFile
	}
	var scale float32
	switch bitDepth {
	case 8:
		scale = 128
	case 16:
		scale = 32768
	case 24:
		scale = 8388608
	case 32:
		scale = 2147483648
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	return &intSource{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		scale:      scale,
	}, nil
}

func (s *intSource) SampleRate() int { return s.sampleRate }
func (s *intSource) Channels() int   { return s.channels }
func (s *intSource) Close() error    { return nil }

func (s *intSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	for i := 0; i < n; i++ {
		dst[i] = float32(s.intBuf.Data[i]-s.offset) / s.scale
	}
	return n, err
}

func newWAV(r io.ReadSeeker) (Source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	src, err := newIntSource(dec, int(dec.BitDepth))
	if err != nil {
		return nil, err
	}
	if dec.BitDepth == 8 {
		src.offset = 128
	}
	return src, nil
}

func newAIFF(r io.ReadSeeker) (Source, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	dec.ReadInfo()
	return newIntSource(dec, int(dec.BitDepth))
}
