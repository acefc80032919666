package scroller

import "errors"

var (
	// ErrInvalidConfig is returned by New when the configuration cannot
	// describe a working engine.
	ErrInvalidConfig = errors.New("invalid scroller config")
	// ErrNotMounted is returned when an operation needs a mounted engine.
	ErrNotMounted = errors.New("scroller is not mounted")
	// ErrAlreadyMounted is returned by a second Mount.
	ErrAlreadyMounted = errors.New("scroller is already mounted")
	// ErrUnmounted is returned by Mount once the engine has been unmounted.
	ErrUnmounted = errors.New("scroller was unmounted")
)
