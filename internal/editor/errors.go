package editor

import "errors"

var (
	ErrObjectNotFound = errors.New("canvas object not found")
	ErrObjectLocked   = errors.New("canvas object is locked")
	ErrUnknownShape   = errors.New("unknown shape kind")
	ErrEmptyText      = errors.New("text must not be empty")
	ErrInvalidExport  = errors.New("invalid export options")
)
