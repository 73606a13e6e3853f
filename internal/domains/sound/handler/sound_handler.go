package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/sound/model"
	"kodiboard-backend/internal/domains/sound/service"
	"kodiboard-backend/internal/shared/middleware"
	"kodiboard-backend/internal/shared/response"
	"kodiboard-backend/internal/shared/utils"
)

type SoundHandler struct {
	soundService service.Service
}

func NewSoundHandler(soundService service.Service) *SoundHandler {
	return &SoundHandler{
		soundService: soundService,
	}
}

// ListSounds searches sounds by name/tag substring, tag slug, or owner.
// GET /sounds
func (h *SoundHandler) ListSounds(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	params := model.SearchParams{
		Query:   c.Query("q"),
		TagSlug: c.Query("tag"),
		OwnerID: utils.ParseStringToUUID(c.Query("owner_id")),
	}

	sounds, err := h.soundService.Search(c.Request.Context(), scope, params)
	if err != nil {
		respondSoundError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sounds": sounds})
}

// CreateSound accepts a multipart upload.
// POST /sounds
func (h *SoundHandler) CreateSound(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	// Step 1: Read the uploaded file
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Audio file required.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded file.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded file.")
		return
	}

	// Step 2: Collect form fields
	input := model.CreateSoundInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Tags:        c.PostForm("tags"),
		Privacy:     c.DefaultPostForm("privacy", model.PrivacyLinkOnly),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	// Step 3: Call service
	sound, err := h.soundService.Create(c.Request.Context(), scope, input)
	if err != nil {
		respondSoundError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sound": sound})
}

// UpdateSound partially updates metadata and/or replaces tags.
// PATCH /sounds/:id
func (h *SoundHandler) UpdateSound(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	soundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sound ID.")
		return
	}

	var req model.UpdateSoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.soundService.Update(c.Request.Context(), scope, soundID, req); err != nil {
		respondSoundError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// DeleteSound removes the row and the backing storage object.
// DELETE /sounds/:id
func (h *SoundHandler) DeleteSound(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	soundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sound ID.")
		return
	}

	if err := h.soundService.Delete(c.Request.Context(), scope, soundID); err != nil {
		respondSoundError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// respondSoundError maps domain errors onto HTTP responses.
func respondSoundError(c *gin.Context, err error) {
	var upstream *model.UpstreamError

	switch {
	case errors.Is(err, model.ErrSoundNotFound):
		response.NotFound(c, "Sound not found.")
	case errors.Is(err, model.ErrNameRequired):
		response.BadRequest(c, "Sound name required.")
	case errors.As(err, &upstream):
		response.BadGateway(c, upstream.Message)
	default:
		response.InternalServerError(c, err.Error())
	}
}
