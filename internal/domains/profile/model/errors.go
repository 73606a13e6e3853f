package model

import "errors"

// Error codes
const (
	ErrCodeProfileNotFound = "PRF001"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)
