package display

import (
	"bufio"
	"image"
	"image/color"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	defaultCellWidth  = 8
	defaultCellHeight = 16
	statusRows        = 1
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1A5E1A", Dark: "#7CFC7C"}).
			Bold(true)
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
)

// TerminalConfig controls a Terminal display.
type TerminalConfig struct {
	Out        io.Writer
	Fd         int
	CellWidth  int
	CellHeight int
	Palette    string
	Color      bool
	Status     bool
	// Columns and Rows pin the grid size instead of querying the terminal.
	Columns int
	Rows    int
}

// Terminal renders frames as coloured glyphs, one glyph per cell of
// CellWidth x CellHeight pixels.
type Terminal struct {
	cfg     TerminalConfig
	palette []rune
	out     *bufio.Writer

	mu     sync.Mutex
	active bool
}

func NewTerminal(cfg TerminalConfig) *Terminal {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
		cfg.Fd = int(os.Stdout.Fd())
	}
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = defaultCellWidth
	}
	if cfg.CellHeight <= 0 {
		cfg.CellHeight = defaultCellHeight
	}
	return &Terminal{
		cfg:     cfg,
		palette: Palette(cfg.Palette),
		out:     bufio.NewWriterSize(cfg.Out, 1<<16),
	}
}

// Enter switches to the alternate screen and hides the cursor.
func (t *Terminal) Enter() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		return nil
	}
	t.active = true
	t.out.WriteString("\x1b[?1049h\x1b[?25l")
	return t.out.Flush()
}

// Leave restores the screen Enter replaced.
func (t *Terminal) Leave() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return nil
	}
	t.active = false
	t.out.WriteString(resetANSI + "\x1b[?25h\x1b[?1049l")
	return t.out.Flush()
}

// grid returns the cell grid available for drawing.
func (t *Terminal) grid() (cols, rows int) {
	cols, rows = t.cfg.Columns, t.cfg.Rows
	if cols <= 0 || rows <= 0 {
		if !term.IsTerminal(t.cfg.Fd) {
			return 0, 0
		}
		w, h, err := term.GetSize(t.cfg.Fd)
		if err != nil {
			return 0, 0
		}
		cols, rows = w, h
	}
	if t.cfg.Status {
		rows -= statusRows
	}
	return cols, rows
}

// Viewport is the pixel size a frame should have to fill the terminal.
func (t *Terminal) Viewport() (int, int) {
	cols, rows := t.grid()
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	return cols * t.cfg.CellWidth, rows * t.cfg.CellHeight
}

func (t *Terminal) Present(img image.Image, status string) error {
	b := img.Bounds()
	cols := b.Dx() / t.cfg.CellWidth
	rows := b.Dy() / t.cfg.CellHeight
	if cols <= 0 || rows <= 0 {
		return nil
	}
	lines := cellLines(img, cols, rows, t.cfg.CellWidth, t.cfg.CellHeight, t.palette, t.cfg.Color)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.WriteString("\x1b[H")
	for i, line := range lines {
		if i > 0 {
			t.out.WriteString("\r\n")
		}
		t.out.WriteString(line)
	}
	if t.cfg.Status {
		t.out.WriteString("\r\n\x1b[2K")
		t.out.WriteString(statusStyle.MaxWidth(cols).Render(status))
	}
	return t.out.Flush()
}

// Clear blanks the screen and centres hint on it.
func (t *Terminal) Clear(hint string) error {
	cols, rows := t.grid()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.WriteString(resetANSI + "\x1b[2J\x1b[H")
	if hint != "" {
		text := hintStyle.Render(hint)
		if cols > 0 && rows > 0 {
			text = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, text)
		}
		t.out.WriteString(strings.ReplaceAll(text, "\n", "\r\n"))
	}
	return t.out.Flush()
}

// cellLines turns img into rows of glyphs. Rows are built by a worker pool.
func cellLines(img image.Image, cols, rows, cellW, cellH int, palette []rune, useANSI bool) []string {
	lines := make([]string, rows)

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > rows {
		numWorkers = rows
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup
	rowJobs := make(chan int, numWorkers)
	origin := img.Bounds().Min

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rowJobs {
				var builder strings.Builder
				builder.Grow(cols * 8)
				lastColor := -1
				for x := 0; x < cols; x++ {
					r, g, b := cellColor(img, origin.X+x*cellW, origin.Y+y*cellH, cellW, cellH)
					char, fg := glyphFor(r, g, b, palette)
					if useANSI && char != ' ' && fg != lastColor {
						builder.WriteString(colorCode(fg))
						lastColor = fg
					}
					builder.WriteRune(char)
				}
				if useANSI {
					builder.WriteString(resetANSI)
				}
				lines[y] = builder.String()
			}
		}()
	}

	for y := 0; y < rows; y++ {
		rowJobs <- y
	}
	close(rowJobs)
	wg.Wait()

	return lines
}

// cellColor averages a cell of img into colour components in [0,1].
func cellColor(img image.Image, x0, y0, w, h int) (float64, float64, float64) {
	var sr, sg, sb float64
	n := 0
	if rgba, ok := img.(*image.RGBA); ok {
		for y := y0; y < y0+h; y++ {
			off := rgba.PixOffset(x0, y)
			for x := 0; x < w; x++ {
				sr += float64(rgba.Pix[off])
				sg += float64(rgba.Pix[off+1])
				sb += float64(rgba.Pix[off+2])
				off += 4
				n++
			}
		}
		return sr / float64(n) / 255, sg / float64(n) / 255, sb / float64(n) / 255
	}
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			sr += float64(c.R)
			sg += float64(c.G)
			sb += float64(c.B)
			n++
		}
	}
	return sr / float64(n) / 255, sg / float64(n) / 255, sb / float64(n) / 255
}

// glyphFor picks a glyph from luminance and a colour from hue. The colour is
// normalised to full brightness since the glyph already carries intensity.
func glyphFor(r, g, b float64, palette []rune) (rune, int) {
	lum := 0.2126*r + 0.7152*g + 0.0722*b
	index := clampInt(int(lum*float64(len(palette)-1)+0.5), 0, len(palette)-1)
	if index == 0 {
		return palette[0], 0
	}
	peak := r
	if g > peak {
		peak = g
	}
	if b > peak {
		peak = b
	}
	return palette[index], rgbToANSI(r/peak, g/peak, b/peak)
}
