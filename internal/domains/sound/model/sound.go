package model

import (
	"time"

	"github.com/google/uuid"
)

// Privacy levels for sounds and playlists.
const (
	PrivacyPublic   = "public"
	PrivacyPrivate  = "private"
	PrivacyLinkOnly = "link_only"
)

// Sound is an uploaded audio asset, owned exclusively by its creator.
type Sound struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	Description     *string
	StoragePath     string
	SizeBytes       int64
	Format          *string // content type of the uploaded bytes
	Privacy         string
	DurationSeconds *int
	CreatedAt       *time.Time
	Tags            []string // aggregated display texts
}

// NormalizePrivacy maps arbitrary input to a canonical privacy value. The
// hyphenated variant and anything unrecognized default to link_only.
func NormalizePrivacy(value string) string {
	switch value {
	case PrivacyPublic, PrivacyPrivate, PrivacyLinkOnly:
		return value
	default:
		return PrivacyLinkOnly
	}
}
