package model

import "errors"

// Error codes
const (
	ErrCodePlaylistNotFound  = "PLS001"
	ErrCodeShareLinkNotFound = "PLS002"
)

var (
	ErrPlaylistNotFound  = errors.New("playlist not found")
	ErrShareLinkNotFound = errors.New("share link not found")
)
