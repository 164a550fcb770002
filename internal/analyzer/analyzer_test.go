package analyzer

import (
	"math"
	"testing"
)

func sine(bin, fftSize, count int) []float32 {
	out := make([]float32, count)
	for i := range out {
		out[i] = float32(math.Sin(2 * math.Pi * float64(bin) * float64(i) / float64(fftSize)))
	}
	return out
}

func TestFrequencyBinCountIsHalfWindow(t *testing.T) {
	n := New(Config{})
	if got := n.FrequencyBinCount(); got != 128 {
		t.Fatalf("bin count=%d want=128", got)
	}
	n = New(Config{FFTSize: 300})
	if got := n.FrequencyBinCount(); got != 256 {
		t.Fatalf("bin count for rounded window=%d want=256", got)
	}
}

func TestSilenceYieldsZeroSpectrum(t *testing.T) {
	n := New(Config{})
	n.Write(make([]float32, 512), 1)
	dst := make([]uint8, n.FrequencyBinCount())
	n.ByteFrequencyData(dst)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("bin %d=%d want=0", i, v)
		}
	}
}

func TestSinePeaksAtItsBin(t *testing.T) {
	n := New(Config{})
	// quiet enough that the main lobe stays below saturation
	quiet := sine(16, DefaultFFTSize, 1024)
	for i := range quiet {
		quiet[i] *= 0.003
	}
	n.Write(quiet, 1)
	dst := make([]uint8, n.FrequencyBinCount())
	for i := 0; i < 4; i++ {
		n.ByteFrequencyData(dst)
	}
	peak := 0
	for i, v := range dst {
		if v > dst[peak] {
			peak = i
		}
	}
	if peak != 16 {
		t.Fatalf("peak bin=%d want=16 (spectrum=%v)", peak, dst)
	}
	if dst[16] == 0 || dst[16] == 255 {
		t.Fatalf("quiet sine peak=%d want strictly between 0 and 255", dst[16])
	}
}

func TestFullScaleSineSaturates(t *testing.T) {
	n := New(Config{})
	n.Write(sine(16, DefaultFFTSize, 1024), 1)
	dst := make([]uint8, n.FrequencyBinCount())
	for i := 0; i < 4; i++ {
		n.ByteFrequencyData(dst)
	}
	if dst[16] != 255 {
		t.Fatalf("bin 16=%d want=255", dst[16])
	}
	if dst[64] >= dst[16] {
		t.Fatalf("far bin=%d not below peak=%d", dst[64], dst[16])
	}
}

func TestStereoWriteMixesToMono(t *testing.T) {
	n := New(Config{})
	stereo := make([]float32, 1024)
	for i := 0; i < len(stereo); i += 2 {
		stereo[i] = 1
		stereo[i+1] = -1
	}
	n.Write(stereo, 2)
	dst := make([]uint8, n.FrequencyBinCount())
	n.ByteFrequencyData(dst)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("cancelled stereo should be silent, bin %d=%d", i, v)
		}
	}
}

func TestRingBufferKeepsLatestSamplesInOrder(t *testing.T) {
	n := New(Config{FFTSize: 4})
	n.Write([]float32{1, 2, 3}, 1)
	n.Write([]float32{4, 5}, 1)
	out := make([]float64, 4)
	n.snapshot(out)
	want := []float64{2, 3, 4, 5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("snapshot=%v want=%v", out, want)
		}
	}
}

func TestShortDestinationIsSafe(t *testing.T) {
	n := New(Config{})
	n.Write(sine(3, DefaultFFTSize, 256), 1)
	dst := make([]uint8, 8)
	n.ByteFrequencyData(dst)
	long := make([]uint8, 200)
	for i := range long {
		long[i] = 9
	}
	n.ByteFrequencyData(long)
	for i := 128; i < len(long); i++ {
		if long[i] != 0 {
			t.Fatalf("bin %d beyond bin count=%d want=0", i, long[i])
		}
	}
}

func TestResetClearsHistory(t *testing.T) {
	n := New(Config{})
	n.Write(sine(8, DefaultFFTSize, 512), 1)
	dst := make([]uint8, n.FrequencyBinCount())
	n.ByteFrequencyData(dst)
	n.Reset()
	n.ByteFrequencyData(dst)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("after reset bin %d=%d want=0", i, v)
		}
	}
}

func TestLevelsFrom(t *testing.T) {
	spec := make([]uint8, 128)
	if got := LevelsFrom(spec, 44_100); got != (Levels{}) {
		t.Fatalf("zero spectrum levels=%+v", got)
	}
	for i := range spec {
		spec[i] = 255
	}
	got := LevelsFrom(spec, 44_100)
	if math.Abs(got.Overall-1) > 1e-9 {
		t.Fatalf("full spectrum overall=%f want=1", got.Overall)
	}
	if LevelsFrom(nil, 0) != (Levels{}) {
		t.Fatalf("empty spectrum should yield zero levels")
	}
}

func TestAverage(t *testing.T) {
	vals := []float64{0.2, 0.4, 0.6, 0.8}
	want := 0.5
	if got := average(vals); math.Abs(got-want) > 1e-6 {
		t.Fatalf("average=%f want=%f", got, want)
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{
		0:   1,
		1:   1,
		3:   4,
		31:  32,
		257: 512,
	}
	for input, want := range cases {
		if got := nextPow2(input); got != want {
			t.Fatalf("nextPow2(%d)=%d want=%d", input, got, want)
		}
	}
}

func TestClamp(t *testing.T) {
	if clamp(2, 0, 1) != 1 {
		t.Fatalf("expected clamp high to be 1")
	}
	if clamp(-1, 0, 1) != 0 {
		t.Fatalf("expected clamp low to be 0")
	}
}
