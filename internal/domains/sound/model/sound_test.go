package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrivacy(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"public", PrivacyPublic},
		{"private", PrivacyPrivate},
		{"link_only", PrivacyLinkOnly},
		{"link-only", PrivacyLinkOnly}, // hyphenated variant
		{"PUBLIC", PrivacyLinkOnly},
		{"friends", PrivacyLinkOnly},
		{"", PrivacyLinkOnly},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePrivacy(tt.input))
		})
	}
}
