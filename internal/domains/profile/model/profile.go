package model

import (
	"github.com/google/uuid"
)

// Profile is the identity-linked user record. Created lazily on the first
// authenticated request for a given identity; never deleted.
type Profile struct {
	ID          uuid.UUID
	Handle      *string
	DisplayName *string
	AvatarURL   *string
}

// ProfileDTO is the public creator shape embedded across responses.
type ProfileDTO struct {
	ID          string  `json:"id"`
	Handle      *string `json:"handle"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

func (p *Profile) ToDTO() *ProfileDTO {
	return &ProfileDTO{
		ID:          p.ID.String(),
		Handle:      p.Handle,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}

// PlaceholderDTO stands in for a creator whose profile row does not exist yet.
func PlaceholderDTO(id uuid.UUID) *ProfileDTO {
	return &ProfileDTO{ID: id.String()}
}

// CreatorStats summarizes a creator's public footprint.
type CreatorStats struct {
	Plays     int `json:"plays"`
	Sounds    int `json:"sounds"`
	Playlists int `json:"playlists"`
}
