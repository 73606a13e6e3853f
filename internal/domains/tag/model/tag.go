package model

import (
	"github.com/google/uuid"
)

// Tag is a normalized label shared across sounds. Created on demand, never
// deleted.
type Tag struct {
	ID      uuid.UUID
	Slug    string // unique, lowercase, hyphenated
	Display string // original casing, last writer wins
}
