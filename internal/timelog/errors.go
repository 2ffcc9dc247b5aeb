package timelog

import "errors"

// Every error returned by the tracker and its stores wraps one of these kinds.
var (
	ErrParse             = errors.New("parse error")
	ErrInvalidState      = errors.New("invalid state")
	ErrNotFound          = errors.New("not found")
	ErrIO                = errors.New("io failure")
	ErrUnsupportedFormat = errors.New("unsupported format")
)
