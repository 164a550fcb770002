package mode

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// VisualMode selects the overlay and the terrain layer count for one session.
type VisualMode int

const (
	Wave VisualMode = iota
	Spikes
	Blobs
	FractalWeb

	// Count is the number of visual modes.
	Count = 4
)

var modeNames = [Count]string{"wave", "spikes", "blobs", "web"}

func (m VisualMode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m is one of the known modes.
func (m VisualMode) Valid() bool {
	return m >= 0 && m < Count
}

// Names returns all mode identifiers in mode order.
func Names() []string {
	out := make([]string, Count)
	copy(out, modeNames[:])
	return out
}

// Parse accepts a mode name ("wave", "spikes", "blobs", "web") or its digit.
func Parse(name string) (VisualMode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "fractal", "fractal-web", "fractalweb":
		return FractalWeb, nil
	case "spike":
		return Spikes, nil
	case "blob":
		return Blobs, nil
	}
	for i, n := range modeNames {
		if key == n {
			return VisualMode(i), nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil && VisualMode(n).Valid() {
		return VisualMode(n), nil
	}
	return 0, fmt.Errorf("unknown visual mode %q", name)
}

// Selector rolls a visual mode when a session starts.
type Selector struct {
	rng   *rand.Rand
	fixed *VisualMode
}

// NewSelector returns a Selector drawing from src.
func NewSelector(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// Fixed returns a Selector that always yields m.
func Fixed(m VisualMode) *Selector {
	return &Selector{fixed: &m}
}

// Next returns a uniformly random mode in [0, Count).
func (s *Selector) Next() VisualMode {
	if s.fixed != nil {
		return *s.fixed
	}
	return VisualMode(s.rng.Intn(Count))
}
