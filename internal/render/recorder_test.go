package render

// recorder is a Surface that keeps every call for inspection.
type recorder struct {
	width, height float64
	clears        int
	polygons      []recordedPolygon
	circles       []recordedCircle
	lines         []recordedLine
	order         []string
}

type recordedPolygon struct {
	points []Point
	paint  Paint
}

type recordedCircle struct {
	center Point
	radius float64
	paint  Paint
	glow   Glow
}

type recordedLine struct {
	from, to Point
	width    float64
	paint    Paint
}

func newRecorder(width, height float64) *recorder {
	return &recorder{width: width, height: height}
}

func (r *recorder) Size() (float64, float64) { return r.width, r.height }

func (r *recorder) Clear() {
	r.clears++
	r.order = append(r.order, "clear")
}

func (r *recorder) FillPolygon(points []Point, paint Paint) {
	cp := make([]Point, len(points))
	copy(cp, points)
	r.polygons = append(r.polygons, recordedPolygon{points: cp, paint: paint})
	r.order = append(r.order, "polygon")
}

func (r *recorder) FillCircle(center Point, radius float64, paint Paint, glow Glow) {
	r.circles = append(r.circles, recordedCircle{center: center, radius: radius, paint: paint, glow: glow})
	r.order = append(r.order, "circle")
}

func (r *recorder) StrokeLine(from, to Point, width float64, paint Paint, glow Glow) {
	r.lines = append(r.lines, recordedLine{from: from, to: to, width: width, paint: paint})
	r.order = append(r.order, "line")
}
