package service

import "errors"

var (
	ErrUnpaid       = errors.New("invalid or unpaid session")
	ErrOrderExpired = errors.New("download links have expired")
	ErrFileNotFound = errors.New("file not found in order")
)
