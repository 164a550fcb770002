//go:build !sdl

package display

import "image"

// SDL is unavailable in this build.
type SDL struct{}

// SupportsSDL reports whether the SDL backend was compiled in.
func SupportsSDL() bool { return false }

func NewSDL(width, height int) (*SDL, error) { return nil, ErrSDLUnavailable }

func (s *SDL) Viewport() (int, int)              { return 0, 0 }
func (s *SDL) Present(image.Image, string) error { return ErrSDLUnavailable }
func (s *SDL) Clear(string) error                { return nil }
func (s *SDL) Quit() bool                        { return false }
func (s *SDL) Close() error                      { return nil }
