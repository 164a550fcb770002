package session

import "errors"

var (
	// ErrNoSource is returned by Play when there is nothing to play.
	ErrNoSource = errors.New("no source selected")
)
