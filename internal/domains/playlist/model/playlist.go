package model

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is an ordered collection of sounds. The share token itself is never
// stored; only its salted digest is.
type Playlist struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Description    *string
	Privacy        string
	ShareTokenHash string
	CreatedAt      *time.Time

	SoundCount int // populated by listing queries
}
