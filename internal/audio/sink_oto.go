package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// oto allows one context per process, so the first stream fixes the format.
var (
	otoOnce     sync.Once
	otoCtx      *oto.Context
	otoErr      error
	otoRate     int
	otoChannels int
)

func otoContext(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
		otoRate, otoChannels = sampleRate, channels
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if sampleRate != otoRate || channels != otoChannels {
		return nil, fmt.Errorf("%w: have %d Hz/%dch, want %d Hz/%dch",
			ErrSampleRateMismatch, otoRate, otoChannels, sampleRate, channels)
	}
	return otoCtx, nil
}

// OtoSink feeds an oto player through a pipe.
type OtoSink struct {
	player *oto.Player
	pw     *io.PipeWriter
	buf    []byte
}

func NewOtoSink(sampleRate, channels int) (*OtoSink, error) {
	if channels <= 0 {
		channels = 2
	}
	ctx, err := otoContext(sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	pr, pw := io.Pipe()
	player := ctx.NewPlayer(pr)
	player.Play()
	return &OtoSink{player: player, pw: pw}, nil
}

func (s *OtoSink) Write(samples []float32) error {
	need := len(samples) * 4
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]
	for i, v := range samples {
		binary.LittleEndian.PutUint32(s.buf[4*i:], math.Float32bits(v))
	}
	_, err := s.pw.Write(s.buf)
	return err
}

func (s *OtoSink) Close() error {
	_ = s.pw.Close()
	return s.player.Close()
}
