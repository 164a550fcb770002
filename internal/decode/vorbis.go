package decode

import (
	"io"

	"github.com/jfreymuth/oggvorbis"
)

type vorbisSource struct {
	reader     *oggvorbis.Reader
	sampleRate int
	channels   int
}

func newVorbis(r io.ReadSeeker) (Source, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &vorbisSource{
		reader:     reader,
		sampleRate: reader.SampleRate(),
		channels:   reader.Channels(),
	}, nil
}

func (s *vorbisSource) SampleRate() int { return s.sampleRate }
func (s *vorbisSource) Channels() int   { return s.channels }
func (s *vorbisSource) Close() error    { return nil }

func (s *vorbisSource) ReadSamples(dst []float32) (int, error) {
	// the reader wants whole frames
	whole := len(dst) - len(dst)%s.channels
	if whole == 0 {
		return 0, nil
	}
	n, err := s.reader.Read(dst[:whole])
	if n == 0 && err == nil {
		err = io.EOF
	}
	return n, err
}
