package spectrum

import "testing"

type countingNode struct {
	bins  int
	calls int
}

func (n *countingNode) FrequencyBinCount() int { return n.bins }

func (n *countingNode) ByteFrequencyData(dst []uint8) {
	n.calls++
	for i := range dst {
		dst[i] = uint8(n.calls)
	}
}

func TestAtTreatsOutOfRangeAsZero(t *testing.T) {
	s := Spectrum{1, 2, 3}
	if got := s.At(1); got != 2 {
		t.Fatalf("At(1)=%f want=2", got)
	}
	for _, i := range []int{-1, 3, 48} {
		if got := s.At(i); got != 0 {
			t.Fatalf("At(%d)=%f want=0", i, got)
		}
	}
}

func TestSampleReturnsFreshSnapshots(t *testing.T) {
	node := &countingNode{bins: 128}
	s := NewSampler(node)
	first := s.Sample()
	second := s.Sample()
	if len(first) != 128 || len(second) != 128 {
		t.Fatalf("lengths=%d,%d want=128", len(first), len(second))
	}
	if first[0] != 1 {
		t.Fatalf("first snapshot mutated by later sample: %d", first[0])
	}
	if second[0] != 2 {
		t.Fatalf("second snapshot=%d want=2", second[0])
	}
	if node.calls != 2 {
		t.Fatalf("node read %d times want=2", node.calls)
	}
}

func TestNilNodeYieldsSilence(t *testing.T) {
	s := NewSampler(nil)
	spec := s.Sample()
	if len(spec) != DefaultBins {
		t.Fatalf("len=%d want=%d", len(spec), DefaultBins)
	}
	for i, v := range spec {
		if v != 0 {
			t.Fatalf("bin %d=%d want=0", i, v)
		}
	}
}
