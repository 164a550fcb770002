//go:build sdl

package display

import (
	"image"
	"image/draw"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL shows frames in a resizable window.
type SDL struct {
	mu       sync.Mutex
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	frame    *image.RGBA
	width    int
	height   int
	title    string
	quit     bool
}

// SupportsSDL reports whether the SDL backend was compiled in.
func SupportsSDL() bool { return true }

func NewSDL(width, height int) (*SDL, error) {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}
	window, err := sdl.CreateWindow(
		"hillwave",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, err
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, err
	}
	return &SDL{window: window, renderer: renderer, width: width, height: height}, nil
}

// Viewport is the current window size.
func (s *SDL) Viewport() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pollEvents()
	if s.window == nil || s.quit {
		return 0, 0
	}
	return s.width, s.height
}

func (s *SDL) Present(img image.Image, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quit {
		return ErrQuit
	}
	if s.window == nil {
		return nil
	}

	b := img.Bounds()
	if err := s.ensureTexture(b.Dx(), b.Dy()); err != nil {
		return err
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 {
		draw.Draw(s.frame, s.frame.Bounds(), img, b.Min, draw.Src)
		rgba = s.frame
	}

	if status != "" && status != s.title {
		s.window.SetTitle("hillwave · " + status)
		s.title = status
	}
	if err := s.texture.Update(nil, rgba.Pix, rgba.Stride); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

func (s *SDL) Clear(hint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == nil {
		return nil
	}
	s.window.SetTitle("hillwave · " + hint)
	s.title = ""
	_ = s.renderer.SetDrawColor(0, 0, 0, 255)
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

// Quit reports whether the window was closed.
func (s *SDL) Quit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pollEvents()
	return s.quit
}

// ensureTexture matches the streaming texture to the frame size.
func (s *SDL) ensureTexture(width, height int) error {
	if s.texture != nil && s.frame != nil && s.frame.Rect.Dx() == width && s.frame.Rect.Dy() == height {
		return nil
	}
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	tex, err := s.renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height),
	)
	if err != nil {
		return err
	}
	s.texture = tex
	s.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

func (s *SDL) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.quit = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				s.width, s.height = int(e.Data1), int(e.Data2)
			}
		}
	}
}

func (s *SDL) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
	return nil
}
