package audio

import "errors"

var (
	ErrUnknownOutput      = errors.New("unknown audio output")
	ErrSampleRateMismatch = errors.New("oto context already running at a different format")
	ErrNoInputDevice      = errors.New("no suitable audio input device found")
	ErrClosed             = errors.New("audio sink closed")
)
