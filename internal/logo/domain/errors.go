package domain

import "errors"

var (
	ErrBusinessNameRequired = errors.New("business name is required")
	ErrInvalidColor         = errors.New("invalid color, expected #rgb or #rrggbb")
	ErrUnknownPackage       = errors.New("unknown package")
	ErrMissingMetadata      = errors.New("logo metadata missing")
)
