package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	playlistService "kodiboard-backend/internal/domains/playlist/service"
	"kodiboard-backend/internal/domains/profile/model"
	"kodiboard-backend/internal/domains/profile/service"
	soundModel "kodiboard-backend/internal/domains/sound/model"
	soundService "kodiboard-backend/internal/domains/sound/service"
	"kodiboard-backend/internal/shared/middleware"
	"kodiboard-backend/internal/shared/response"
)

// ProfileHandler serves the creator page, composing the three domains into a
// single read.
type ProfileHandler struct {
	profileService  service.Service
	soundService    soundService.Service
	playlistService playlistService.Service
}

func NewProfileHandler(
	profileService service.Service,
	soundService soundService.Service,
	playlistService playlistService.Service,
) *ProfileHandler {
	return &ProfileHandler{
		profileService:  profileService,
		soundService:    soundService,
		playlistService: playlistService,
	}
}

// GetCreator returns a creator's profile together with their visible sounds
// and playlists. Unknown creators get a placeholder profile and empty lists
// rather than a 404: the id namespace is the identity provider's, not ours.
// GET /creators/:id
func (h *ProfileHandler) GetCreator(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	creatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid creator ID.")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), creatorID)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	sounds, err := h.soundService.Search(c.Request.Context(), scope, soundModel.SearchParams{OwnerID: creatorID})
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	playlists, err := h.playlistService.ListByOwner(c.Request.Context(), scope, creatorID)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	// Play counting is not tracked yet; the field is pinned to zero so the
	// response shape stays stable for clients.
	stats := model.CreatorStats{
		Plays:     0,
		Sounds:    len(sounds),
		Playlists: len(playlists),
	}

	response.Success(c, http.StatusOK, gin.H{
		"profile":   profile,
		"sounds":    sounds,
		"playlists": playlists,
		"stats":     stats,
	})
}
