package display

import "errors"

var (
	// ErrQuit is returned by a windowed display once the user closed it.
	ErrQuit = errors.New("display closed by user")
	// ErrSDLUnavailable means the binary was built without the sdl tag.
	ErrSDLUnavailable = errors.New("SDL backend not enabled; rebuild with -tags sdl")
)
