package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/playlist/model"
	"kodiboard-backend/internal/domains/playlist/service"
	soundModel "kodiboard-backend/internal/domains/sound/model"
	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/internal/shared/middleware"
	"kodiboard-backend/internal/shared/response"
)

type PlaylistHandler struct {
	playlistService service.Service
}

func NewPlaylistHandler(playlistService service.Service) *PlaylistHandler {
	return &PlaylistHandler{
		playlistService: playlistService,
	}
}

// ListPlaylists returns playlists visible to the caller.
// GET /playlists
func (h *PlaylistHandler) ListPlaylists(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	playlists, err := h.playlistService.List(c.Request.Context(), scope)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"playlists": playlists})
}

// CreatePlaylist creates a playlist and returns its one-time share token.
// POST /playlists
func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	var req model.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	playlist, err := h.playlistService.Create(c.Request.Context(), scope, req)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"playlist": playlist})
}

// GetPlaylist returns a playlist with its ordered member sounds.
// GET /playlists/:id
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid playlist ID.")
		return
	}

	detail, err := h.playlistService.Get(c.Request.Context(), scope, playlistID)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// UpdatePlaylist partially updates playlist metadata.
// PATCH /playlists/:id
func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid playlist ID.")
		return
	}

	var req model.UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	playlist, err := h.playlistService.Update(c.Request.Context(), scope, playlistID, req)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"playlist": playlist})
}

// RotateShareToken mints a fresh share token, killing every old link.
// POST /playlists/:id/share
func (h *PlaylistHandler) RotateShareToken(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid playlist ID.")
		return
	}

	plaintext, err := h.playlistService.RotateShareToken(c.Request.Context(), scope, playlistID)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"share_token": plaintext})
}

// GetSharedPlaylist resolves a share link. No authentication: the token is the
// capability.
// GET /playlists/share/:token
func (h *PlaylistHandler) GetSharedPlaylist(c *gin.Context) {
	plaintext := c.Param("token")
	if plaintext == "" {
		response.NotFound(c, "Share link not found.")
		return
	}

	detail, err := h.playlistService.GetByShareToken(c.Request.Context(), plaintext)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// AddSound appends a sound to the playlist.
// POST /playlists/:id/sounds
func (h *PlaylistHandler) AddSound(c *gin.Context) {
	h.withMembership(c, func(scope database.Scope, playlistID, soundID uuid.UUID) error {
		return h.playlistService.AddSound(c.Request.Context(), scope, playlistID, soundID)
	})
}

// RemoveSound drops a sound from the playlist.
// DELETE /playlists/:id/sounds
func (h *PlaylistHandler) RemoveSound(c *gin.Context) {
	h.withMembership(c, func(scope database.Scope, playlistID, soundID uuid.UUID) error {
		return h.playlistService.RemoveSound(c.Request.Context(), scope, playlistID, soundID)
	})
}

// ReorderSounds assigns positions 1..n following the submitted order.
// PUT /playlists/:id/sounds
func (h *PlaylistHandler) ReorderSounds(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid playlist ID.")
		return
	}

	var req model.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	soundIDs := make([]uuid.UUID, 0, len(req.SoundIDs))
	for _, raw := range req.SoundIDs {
		soundID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "soundIds must be valid ids.")
			return
		}
		soundIDs = append(soundIDs, soundID)
	}

	if err := h.playlistService.Reorder(c.Request.Context(), scope, playlistID, soundIDs); err != nil {
		respondPlaylistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// withMembership handles the shared shape of add/remove: path id, body sound
// id, then a one-shot service call.
func (h *PlaylistHandler) withMembership(c *gin.Context, fn func(scope database.Scope, playlistID, soundID uuid.UUID) error) {
	scope := middleware.CurrentScope(c)

	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid playlist ID.")
		return
	}

	var req model.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	soundID, err := uuid.Parse(req.SoundID)
	if err != nil {
		response.BadRequest(c, "soundId must be a valid id.")
		return
	}

	if err := fn(scope, playlistID, soundID); err != nil {
		respondPlaylistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// respondPlaylistError maps domain errors onto HTTP responses.
func respondPlaylistError(c *gin.Context, err error) {
	var upstream *soundModel.UpstreamError

	switch {
	case errors.Is(err, model.ErrPlaylistNotFound):
		response.NotFound(c, "Playlist not found.")
	case errors.Is(err, model.ErrShareLinkNotFound):
		response.NotFound(c, "Share link not found.")
	case errors.Is(err, soundModel.ErrSoundNotFound):
		response.NotFound(c, "Sound not found.")
	case errors.As(err, &upstream):
		response.BadGateway(c, upstream.Message)
	default:
		response.InternalServerError(c, err.Error())
	}
}
