package app

// Playlist walks the sources given on the command line.
type Playlist struct {
	items []string
	pos   int
}

func NewPlaylist(items []string) *Playlist {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it != "" {
			out = append(out, it)
		}
	}
	return &Playlist{items: out, pos: -1}
}

func (p *Playlist) Len() int { return len(p.items) }

// Current returns the last source handed out, or "" before the first Next.
func (p *Playlist) Current() string {
	if p.pos < 0 || p.pos >= len(p.items) {
		return ""
	}
	return p.items[p.pos]
}

// Next advances to the following source. Past the end it wraps around when
// wrap is set and reports false otherwise.
func (p *Playlist) Next(wrap bool) (string, bool) {
	if len(p.items) == 0 {
		return "", false
	}
	if p.pos+1 >= len(p.items) {
		if !wrap {
			return "", false
		}
		p.pos = -1
	}
	p.pos++
	return p.items[p.pos], true
}
