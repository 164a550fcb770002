// Package decode turns audio files into streams of float32 samples.
package decode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is a decoded PCM stream.
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels count (1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved samples in [-1,1] and returns the
	// number of values written. It returns io.EOF once the stream is exhausted.
	ReadSamples(dst []float32) (int, error)
	// Close releases the underlying file.
	Close() error
}

type opener func(r io.ReadSeeker) (Source, error)

var formats = map[string]opener{
	".mp3":  newMP3,
	".wav":  newWAV,
	".wave": newWAV,
	".aif":  newAIFF,
	".aiff": newAIFF,
	".flac": newFLAC,
	".ogg":  newVorbis,
	".oga":  newVorbis,
}

// Extensions returns the supported file extensions.
func Extensions() []string {
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supported reports whether path has a decodable extension.
func Supported(path string) bool {
	_, ok := formats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Open opens path and picks a decoder from its extension.
func Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	open, ok := formats[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src, err := open(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &fileSource{Source: src, file: f}, nil
}

// fileSource closes the file after the decoder.
type fileSource struct {
	Source
	file *os.File
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadFull keeps reading until dst is full or the source ends.
func ReadFull(src Source, dst []float32) (int, error) {
	total := 0
	for total < len(dst) {
		n, err := src.ReadSamples(dst[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}
