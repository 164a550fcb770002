package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeWAV writes a 16-bit PCM WAV file with the given interleaved samples.
func writeWAV(t *testing.T, path string, sampleRate, channels int, samples []int16) {
	t.Helper()

	var buf bytes.Buffer
	dataSize := uint32(len(samples) * 2)
	write := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("write header: %v", err)
		}
	}

	buf.WriteString("RIFF")
	write(uint32(36 + dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1))
	write(uint16(channels))
	write(uint32(sampleRate))
	write(uint32(sampleRate * channels * 2))
	write(uint16(channels * 2))
	write(uint16(16))
	buf.WriteString("data")
	write(dataSize)
	write(samples)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

func readAll(t *testing.T, src Source) []float32 {
	t.Helper()
	var out []float32
	chunk := make([]float32, 64)
	for i := 0; i < 10000; i++ {
		n, err := src.ReadSamples(chunk)
		out = append(out, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples: %v", err)
		}
	}
	t.Fatalf("source never ended")
	return nil
}

func TestOpenWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := make([]int16, 200)
	for i := range samples {
		samples[i] = int16(i * 100)
	}
	writeWAV(t, path, 22050, 2, samples)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 22050 {
		t.Fatalf("sample rate=%d want=22050", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Fatalf("channels=%d want=2", src.Channels())
	}

	got := readAll(t, src)
	if len(got) != len(samples) {
		t.Fatalf("samples=%d want=%d", len(got), len(samples))
	}
	for i, v := range samples {
		want := float32(v) / 32768
		if math.Abs(float64(got[i]-want)) > 1e-6 {
			t.Fatalf("sample %d=%v want=%v", i, got[i], want)
		}
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "notes.txt"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err=%v want ErrUnsupportedFormat", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.wav"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v want not-exist", err)
	}
}

func TestOpenGarbageWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("definitely not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatalf("expected error for garbage file")
	}
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"a.MP3", "b.wav", "c.flac", "d.ogg", "e.aiff"} {
		if !Supported(name) {
			t.Fatalf("%s should be supported", name)
		}
	}
	if Supported("f.m4a") {
		t.Fatalf("m4a should not be supported")
	}
}

func TestExtensionsListsEveryDecoder(t *testing.T) {
	exts := Extensions()
	if len(exts) != len(formats) {
		t.Fatalf("extensions=%v want %d entries", exts, len(formats))
	}
	for i, ext := range exts {
		if !Supported("x" + ext) {
			t.Fatalf("listed extension %q is not supported", ext)
		}
		if i > 0 && exts[i-1] >= ext {
			t.Fatalf("extensions not sorted: %v", exts)
		}
	}
	for _, ext := range []string{".wave", ".aif", ".oga"} {
		found := false
		for _, e := range exts {
			found = found || e == ext
		}
		if !found {
			t.Fatalf("%s missing from %v", ext, exts)
		}
	}
}

func TestSynthRejectsBufferShorterThanAFrame(t *testing.T) {
	src := NewSynth(0, 1000, 1)
	n, err := src.ReadSamples(make([]float32, 1))
	if n != 0 || !errors.Is(err, io.ErrShortBuffer) {
		t.Fatalf("n=%d err=%v want=0 %v", n, err, io.ErrShortBuffer)
	}
}

func TestSynthEndsAfterDuration(t *testing.T) {
	src := NewSynth(100*time.Millisecond, 1000, 1)
	got := readAll(t, src)
	if len(got) != 200 {
		t.Fatalf("samples=%d want=200", len(got))
	}
	for i, v := range got {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d=%v out of range", i, v)
		}
	}
}

func TestSynthEndless(t *testing.T) {
	src := NewSynth(0, 8000, 1)
	buf := make([]float32, 4096)
	for i := 0; i < 10; i++ {
		n, err := src.ReadSamples(buf)
		if err != nil || n != len(buf) {
			t.Fatalf("read %d: n=%d err=%v", i, n, err)
		}
	}
}

func TestSynthDeterministic(t *testing.T) {
	a := make([]float32, 512)
	b := make([]float32, 512)
	if _, err := ReadFull(NewSynth(0, 8000, 7), a); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFull(NewSynth(0, 8000, 7), b); err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestReadFullStopsAtEOF(t *testing.T) {
	src := NewSynth(10*time.Millisecond, 1000, 1)
	buf := make([]float32, 100)
	n, err := ReadFull(src, buf)
	if n != 20 || !errors.Is(err, io.EOF) {
		t.Fatalf("n=%d err=%v want 20, EOF", n, err)
	}
}
