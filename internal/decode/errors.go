package decode

import "errors"

var (
	ErrUnsupportedFormat   = errors.New("unsupported audio format")
	ErrInvalidFile         = errors.New("invalid audio file")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
)
