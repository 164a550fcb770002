package decode

import (
	"io"

	"github.com/mewkiz/flac"
)

// flacSource interleaves FLAC subframes into float samples, one frame at a time.
type flacSource struct {
	stream     *flac.Stream
	sampleRate int
	channels   int
	scale      float32
	pending    []float32
}

func newFLAC(r io.ReadSeeker) (Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, err
	}
	info := stream.Info
	if info == nil || info.NChannels == 0 || info.SampleRate == 0 {
		return nil, ErrInvalidFile
	}
	bps := int(info.BitsPerSample)
	if bps <= 0 || bps > 32 {
		return nil, ErrUnsupportedBitDepth
	}
	return &flacSource{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		scale:      float32(int64(1) << uint(bps-1)),
	}, nil
}

func (s *flacSource) SampleRate() int { return s.sampleRate }
func (s *flacSource) Channels() int   { return s.channels }
func (s *flacSource) Close() error    { return nil }

func (s *flacSource) ReadSamples(dst []float32) (int, error) {
	if len(s.pending) == 0 {
		frame, err := s.stream.ParseNext()
		if err != nil {
			return 0, err
		}
		count := int(frame.Subframes[0].NSamples)
		if cap(s.pending) < count*s.channels {
			s.pending = make([]float32, count*s.channels)
		}
		s.pending = s.pending[:count*s.channels]
		for i := 0; i < count; i++ {
			for ch := 0; ch < s.channels; ch++ {
				s.pending[i*s.channels+ch] = float32(frame.Subframes[ch].Samples[i]) / s.scale
			}
		}
	}
	n := copy(dst, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}
