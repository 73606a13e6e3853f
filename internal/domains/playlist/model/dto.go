package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	profileModel "kodiboard-backend/internal/domains/profile/model"
	soundModel "kodiboard-backend/internal/domains/sound/model"
)

// PlaylistDTO is the public playlist shape. ShareToken is only present in the
// create/rotate responses; it is unrecoverable afterwards.
type PlaylistDTO struct {
	ID          string                   `json:"id"`
	OwnerID     string                   `json:"owner_id"`
	Name        string                   `json:"name"`
	Description *string                  `json:"description"`
	Privacy     string                   `json:"privacy"`
	CreatedAt   *string                  `json:"created_at"`
	SoundCount  int                      `json:"sound_count"`
	Creator     *profileModel.ProfileDTO `json:"creator,omitempty"`
	ShareToken  string                   `json:"share_token,omitempty"`
}

// PlaylistDetail is a playlist together with its ordered member sounds.
type PlaylistDetail struct {
	Playlist PlaylistDTO          `json:"playlist"`
	Sounds   []soundModel.SoundDTO `json:"sounds"`
}

func (p *Playlist) ToDTO() PlaylistDTO {
	var createdAt *string
	if p.CreatedAt != nil {
		formatted := p.CreatedAt.Format(time.RFC3339)
		createdAt = &formatted
	}

	return PlaylistDTO{
		ID:          p.ID.String(),
		OwnerID:     p.OwnerID.String(),
		Name:        p.Name,
		Description: p.Description,
		Privacy:     p.Privacy,
		CreatedAt:   createdAt,
		SoundCount:  p.SoundCount,
	}
}

// CreatePlaylistRequest creates a playlist.
type CreatePlaylistRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Privacy     string  `json:"privacy"`
}

func (r CreatePlaylistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
	)
}

// UpdatePlaylistRequest is a partial update; nil fields are untouched.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Privacy     *string `json:"privacy"`
}

func (r UpdatePlaylistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty.Error("name cannot be empty")),
	)
}

// MembershipRequest references a sound to add or remove.
type MembershipRequest struct {
	SoundID string `json:"soundId"`
}

func (r MembershipRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SoundID,
			validation.Required.Error("soundId is required"),
			is.UUID.Error("soundId must be a valid id"),
		),
	)
}

// ReorderRequest lists sound ids in their desired order. Ids that are not
// members are skipped; members not listed keep their old position.
type ReorderRequest struct {
	SoundIDs []string `json:"soundIds"`
}

func (r ReorderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SoundIDs, validation.Required.Error("soundIds is required")),
	)
}
