package domain

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderExists      = errors.New("order already exists")
	ErrInvalidSessionID = errors.New("invalid session id")
)
