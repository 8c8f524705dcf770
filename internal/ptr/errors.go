package ptr

import "errors"

var (
	ErrNilView           = errors.New("view is nil")
	ErrNoListener        = errors.New("refresh listener is required")
	ErrNoAdapter         = errors.New("no view adapter for view")
	ErrUnknownLayout     = errors.New("unknown header layout")
	ErrUnknownTransition = errors.New("unknown header transition")
	ErrInvalidDistance   = errors.New("refresh scroll distance must be in (0, 1]")
	ErrInvalidOption     = errors.New("invalid option")
	ErrNoScheduler       = errors.New("scheduler is required")
)
