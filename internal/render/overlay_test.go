package render

import (
	"math"
	"testing"

	"github.com/guidoenr/hillwave/internal/mode"
	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/spectrum"
)

func rampSpectrum() spectrum.Spectrum {
	spec := make(spectrum.Spectrum, 128)
	for i := range spec {
		spec[i] = uint8(i * 2)
	}
	return spec
}

func TestNewOverlayPerMode(t *testing.T) {
	want := map[mode.VisualMode]string{
		mode.Wave:       "wave",
		mode.Spikes:     "spikes",
		mode.Blobs:      "blobs",
		mode.FractalWeb: "web",
	}
	for m, name := range want {
		o, err := NewOverlay(m, params.Defaults())
		if err != nil {
			t.Fatalf("NewOverlay(%v): %v", m, err)
		}
		if o.Name() != name {
			t.Fatalf("NewOverlay(%v).Name()=%q want=%q", m, o.Name(), name)
		}
	}
	if _, err := NewOverlay(mode.VisualMode(4), params.Defaults()); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestOverlaysDoNotMutateSpectrum(t *testing.T) {
	for m := mode.VisualMode(0); m < mode.Count; m++ {
		spec := rampSpectrum()
		orig := append(spectrum.Spectrum(nil), spec...)
		o, _ := NewOverlay(m, params.Defaults())
		o.Render(newRecorder(800, 600), spec, 5000)
		for i := range spec {
			if spec[i] != orig[i] {
				t.Fatalf("%v overlay changed bin %d: %d -> %d", m, i, orig[i], spec[i])
			}
		}
	}
}

func TestWaveDots(t *testing.T) {
	p := params.Defaults()
	spec := make(spectrum.Spectrum, 128)
	spec[0] = 100
	dots := WaveDots(p, spec, 800, 600, 0)
	if len(dots) < 256 || len(dots) > 257 {
		t.Fatalf("dots=%d want=256", len(dots))
	}
	first := dots[0]
	// angle 0 at t=0 maps to bin 0: radius 180 + 100*1.4 to the right of centre
	if math.Abs(first.Center.X-(400+320)) > 1e-9 || math.Abs(first.Center.Y-300) > 1e-9 {
		t.Fatalf("first dot=%+v want=(720,300)", first.Center)
	}
	if math.Abs(first.Radius-(4+100.0/30)) > 1e-9 {
		t.Fatalf("first dot radius=%f", first.Radius)
	}
	quarter := dots[64]
	if math.Abs(quarter.Center.X-400) > 1e-6 || math.Abs(quarter.Center.Y-(300+180)) > 1e-6 {
		t.Fatalf("quarter dot=%+v want=(400,480)", quarter.Center)
	}
}

func TestWaveColourSaturates(t *testing.T) {
	surface := newRecorder(800, 600)
	spec := make(spectrum.Spectrum, 128)
	for i := range spec {
		spec[i] = 255
	}
	(&waveOverlay{p: params.Defaults()}).Render(surface, spec, 0)
	c := surface.circles[0].paint.Color
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Fatalf("loud wave dot colour=%+v want white", c)
	}
	if surface.circles[0].glow.Blur != 15 {
		t.Fatalf("glow blur=%f want=15", surface.circles[0].glow.Blur)
	}
}

func TestSpikes(t *testing.T) {
	p := params.Defaults()
	spec := make(spectrum.Spectrum, 128)
	spec[0] = 200
	// t chosen so the sway term is zero
	spikes := Spikes(p, spec, 1000, 1000, 0)
	if len(spikes) != 32 {
		t.Fatalf("spikes=%d want=32", len(spikes))
	}
	s0 := spikes[0]
	if s0.From != (Point{X: 500, Y: 700}) {
		t.Fatalf("anchor=%+v want=(500,700)", s0.From)
	}
	if math.Abs(s0.To.X-(500+50+200*2.5)) > 1e-9 || math.Abs(s0.To.Y-700) > 1e-9 {
		t.Fatalf("spike 0 end=%+v", s0.To)
	}
	if math.Abs(s0.Width-(3+200.0/60)) > 1e-9 {
		t.Fatalf("spike 0 width=%f", s0.Width)
	}
	for i := 1; i < len(spikes); i++ {
		if spikes[i].Alpha > spikes[i-1].Alpha {
			t.Fatalf("alpha should fade for later bins: %f after %f", spikes[i].Alpha, spikes[i-1].Alpha)
		}
	}
	if spikes[len(spikes)-1].Alpha != 0 {
		t.Fatalf("last spike alpha=%f want=0 (clamped)", spikes[len(spikes)-1].Alpha)
	}
	if Spikes(p, nil, 100, 100, 0) != nil {
		t.Fatalf("empty spectrum should produce no spikes")
	}
}

func TestBlobs(t *testing.T) {
	p := params.Defaults()
	spec := make(spectrum.Spectrum, 128)
	spec[5] = 10
	spec[6] = 20
	blobs := Blobs(p, spec, 700, 400, 0)
	if len(blobs) != 6 {
		t.Fatalf("blobs=%d want=6", len(blobs))
	}
	b1 := blobs[1]
	wantX := 200 + math.Sin(1)*80
	wantY := 100 + math.Cos(1)*100 + 10*2
	if math.Abs(b1.Center.X-wantX) > 1e-9 || math.Abs(b1.Center.Y-wantY) > 1e-9 {
		t.Fatalf("blob 1=%+v want=(%f,%f)", b1.Center, wantX, wantY)
	}
	if math.Abs(b1.Radius-(50+20*0.8)) > 1e-9 {
		t.Fatalf("blob 1 radius=%f want=%f", b1.Radius, 50+20*0.8)
	}
	if math.Abs(b1.Alpha-(0.4+math.Sin(1)*0.2)) > 1e-9 {
		t.Fatalf("blob 1 alpha=%f", b1.Alpha)
	}
}

func TestBlobsOutOfRangeBins(t *testing.T) {
	spec := spectrum.Spectrum{255, 255, 255, 255, 255, 255}
	blobs := Blobs(params.Defaults(), spec, 700, 400, 0)
	// bin 6 is past the end: blob 1 keeps the base radius
	if blobs[1].Radius != 50 {
		t.Fatalf("radius=%f want=50", blobs[1].Radius)
	}
}

func TestWebEdgesUseManhattanThreshold(t *testing.T) {
	nodes := []Node{
		{Point: Point{X: 0, Y: 0}},
		{Point: Point{X: 60, Y: 59}},   // 119 from node 0
		{Point: Point{X: 120, Y: 0}},   // 120 from node 0, 119 from node 1
		{Point: Point{X: 300, Y: 300}}, // far from everything
		{Point: Point{X: 300, Y: 419}}, // 119 from node 3
	}
	edges := WebEdges(nodes, 120)
	want := []Edge{{A: 0, B: 1}, {A: 1, B: 2}, {A: 3, B: 4}}
	if len(edges) != len(want) {
		t.Fatalf("edges=%v want=%v", edges, want)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Fatalf("edges=%v want=%v", edges, want)
		}
	}
}

func TestWebNodes(t *testing.T) {
	p := params.Defaults()
	spec := make(spectrum.Spectrum, 128)
	spec[10] = 50
	nodes := WebNodes(p, spec, 800, 600, 0)
	if len(nodes) != 13 {
		t.Fatalf("nodes=%d want=13", len(nodes))
	}
	n1 := nodes[1]
	wantX := 400 + math.Sin(1.4)*220 + 50*0.8
	wantY := 300 + math.Cos(1.8)*160 + 50*0.7
	if math.Abs(n1.X-wantX) > 1e-9 || math.Abs(n1.Y-wantY) > 1e-9 {
		t.Fatalf("node 1=%+v want=(%f,%f)", n1.Point, wantX, wantY)
	}
	if math.Abs(n1.Radius-12) > 1e-9 {
		t.Fatalf("node 1 radius=%f want=12", n1.Radius)
	}
}

func TestWebOverlayDrawsNodesAndEdges(t *testing.T) {
	p := params.Defaults()
	spec := rampSpectrum()
	surface := newRecorder(800, 600)
	(&webOverlay{p: p}).Render(surface, spec, 2500)
	nodes := WebNodes(p, spec, 800, 600, 2500)
	edges := WebEdges(nodes, 120)
	if len(surface.circles) != len(nodes) {
		t.Fatalf("circles=%d want=%d", len(surface.circles), len(nodes))
	}
	if len(surface.lines) != len(edges) {
		t.Fatalf("lines=%d want=%d", len(surface.lines), len(edges))
	}
	if surface.order[0] != "circle" {
		t.Fatalf("a node is drawn before its edges, got %v", surface.order)
	}
}

func TestRendererDraw(t *testing.T) {
	r, err := New(mode.Blobs, params.Defaults())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	surface := newRecorder(640, 480)
	if !r.Draw(surface, rampSpectrum(), 100) {
		t.Fatalf("Draw reported skip on a valid surface")
	}
	if surface.order[0] != "clear" {
		t.Fatalf("frame should start with a clear, got %v", surface.order[:1])
	}
	if len(surface.polygons) != 5 {
		t.Fatalf("terrain layers=%d want=5", len(surface.polygons))
	}
	if len(surface.circles) != 6 {
		t.Fatalf("blobs=%d want=6", len(surface.circles))
	}
	last := surface.order[len(surface.order)-1]
	if last != "circle" {
		t.Fatalf("overlay should be painted after the terrain, last call=%s", last)
	}
	if r.OverlayName() != "blobs" || r.Mode() != mode.Blobs {
		t.Fatalf("renderer bound to %s/%v", r.OverlayName(), r.Mode())
	}
}

func TestRendererSkipsEmptySurface(t *testing.T) {
	r, _ := New(mode.Wave, params.Defaults())
	surface := newRecorder(0, 480)
	if r.Draw(surface, rampSpectrum(), 0) {
		t.Fatalf("Draw should skip a zero-width surface")
	}
	if surface.clears != 0 || len(surface.order) != 0 {
		t.Fatalf("no draw calls expected, got %v", surface.order)
	}
	if r.Draw(nil, rampSpectrum(), 0) {
		t.Fatalf("Draw should skip a nil surface")
	}
}

func TestNewRejectsInvalidMode(t *testing.T) {
	if _, err := New(mode.VisualMode(-1), params.Defaults()); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}
