package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	profileModel "kodiboard-backend/internal/domains/profile/model"
)

// SoundDTO is the public response shape for a sound. URL is a freshly minted
// signed URL, regenerated on every read.
type SoundDTO struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	URL             string                   `json:"url"`
	Tags            []string                 `json:"tags"`
	Privacy         string                   `json:"privacy"`
	DurationSeconds *int                     `json:"duration_seconds"`
	CreatedAt       *string                  `json:"created_at"`
	OwnerID         string                   `json:"owner_id"`
	Creator         *profileModel.ProfileDTO `json:"creator"`
}

// CreateSoundInput carries a multipart upload into the service.
type CreateSoundInput struct {
	Name        string
	Description string
	Tags        string // comma-separated raw tag list
	Privacy     string
	FileName    string
	ContentType string
	Data        []byte
}

// UpdateSoundRequest is a partial metadata update. A nil field is untouched;
// a non-nil Tags string replaces the full association set.
type UpdateSoundRequest struct {
	Name    *string `json:"name"`
	Tags    *string `json:"tags"`
	Privacy *string `json:"privacy"`
}

func (r UpdateSoundRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty.Error("name cannot be empty")),
	)
}

// SearchParams filters the sound listing.
type SearchParams struct {
	Query   string    // substring match on name or tag display
	TagSlug string    // exact slug match
	OwnerID uuid.UUID // uuid.Nil means any owner
}
