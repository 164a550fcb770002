package render

import (
	"math"

	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/spectrum"
)

// Node is a vertex of the fractal web, rebuilt every frame.
type Node struct {
	Point
	Radius float64
}

// Edge joins nodes A and B by index.
type Edge struct {
	A, B int
}

// WebNodes samples every tenth bin into a node riding two independent
// sinusoidal trajectories, nudged by the bin magnitude.
func WebNodes(p params.Parameters, spec spectrum.Spectrum, width, height, t float64) []Node {
	step := p.WebStep
	if step <= 0 {
		step = 1
	}
	nodes := make([]Node, 0, spec.Len()/step+1)
	for i := 0; i < spec.Len(); i += step {
		fi := float64(i)
		v := spec.At(i)
		nodes = append(nodes, Node{
			Point: Point{
				X: width/2 + math.Sin(fi*0.14+t/920)*p.WebSpreadX + v*0.8,
				Y: height/2 + math.Cos(fi*0.18+t/870)*p.WebSpreadY + v*0.7,
			},
			Radius: p.WebNodeBase + v/p.WebNodeDiv,
		})
	}
	return nodes
}

// WebEdges connects every pair of nodes closer than threshold in Manhattan distance.
func WebEdges(nodes []Node, threshold float64) []Edge {
	var edges []Edge
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if Manhattan(nodes[i].Point, nodes[j].Point) < threshold {
				edges = append(edges, Edge{A: i, B: j})
			}
		}
	}
	return edges
}

// Manhattan returns |dx| + |dy|.
func Manhattan(a, b Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

type webOverlay struct {
	p params.Parameters
}

func (o *webOverlay) Name() string { return "web" }

func (o *webOverlay) Render(s Surface, spec spectrum.Spectrum, t float64) {
	width, height := s.Size()
	nodes := WebNodes(o.p, spec, width, height, t)

	nodeFill := Solid(RGBA(255, 255, 255, 0.7))
	glow := Glow{Color: glowGreen, Blur: o.p.WebGlow}
	line := Solid(RGBA(50, 255, 120, 0.18))
	edges := WebEdges(nodes, o.p.WebThreshold)

	// edges are ordered by A, so each node is followed by the lines leaving it
	next := 0
	for i, n := range nodes {
		s.FillCircle(n.Point, n.Radius, nodeFill, glow)
		for ; next < len(edges) && edges[next].A == i; next++ {
			e := edges[next]
			s.StrokeLine(nodes[e.A].Point, nodes[e.B].Point, o.p.WebLineWidth, line, Glow{})
		}
	}
}
