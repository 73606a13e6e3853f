package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kodiboard-backend/internal/shared/middleware"
	"kodiboard-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigin),
	)

	// Auth middlewares are built once and attached per route group.
	requireAuth := middleware.RequireAuth(c.Verifier, c.ProfileService)
	optionalAuth := middleware.OptionalAuth(c.Verifier, c.ProfileService)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupSoundRoutes(v1, c, requireAuth, optionalAuth)
		setupPlaylistRoutes(v1, c, requireAuth, optionalAuth)
		setupShareRoutes(v1, c)
		setupCreatorRoutes(v1, c, optionalAuth)
	}

	return router
}

// ========================================
// SOUND ROUTES
// ========================================
func setupSoundRoutes(v1 *gin.RouterGroup, c *container.Container, requireAuth, optionalAuth gin.HandlerFunc) {
	sounds := v1.Group("/sounds")
	{
		sounds.GET("", optionalAuth, c.SoundHandler.ListSounds)
		sounds.POST("", requireAuth, c.SoundHandler.CreateSound)
		sounds.PATCH("/:id", requireAuth, c.SoundHandler.UpdateSound)
		sounds.DELETE("/:id", requireAuth, c.SoundHandler.DeleteSound)
	}
}

// ========================================
// PLAYLIST ROUTES
// ========================================
func setupPlaylistRoutes(v1 *gin.RouterGroup, c *container.Container, requireAuth, optionalAuth gin.HandlerFunc) {
	playlists := v1.Group("/playlists")
	{
		playlists.GET("", optionalAuth, c.PlaylistHandler.ListPlaylists)
		playlists.POST("", requireAuth, c.PlaylistHandler.CreatePlaylist)
		playlists.GET("/:id", optionalAuth, c.PlaylistHandler.GetPlaylist)
		playlists.PATCH("/:id", requireAuth, c.PlaylistHandler.UpdatePlaylist)
		playlists.POST("/:id/share", requireAuth, c.PlaylistHandler.RotateShareToken)
		playlists.POST("/:id/sounds", requireAuth, c.PlaylistHandler.AddSound)
		playlists.DELETE("/:id/sounds", requireAuth, c.PlaylistHandler.RemoveSound)
		playlists.PUT("/:id/sounds", requireAuth, c.PlaylistHandler.ReorderSounds)
	}
}

// ========================================
// SHARE ROUTES
// ========================================
// No auth middleware at all: the token in the path is the capability.
func setupShareRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/playlists/share/:token", c.PlaylistHandler.GetSharedPlaylist)
}

// ========================================
// CREATOR ROUTES
// ========================================
func setupCreatorRoutes(v1 *gin.RouterGroup, c *container.Container, optionalAuth gin.HandlerFunc) {
	v1.GET("/creators/:id", optionalAuth, c.ProfileHandler.GetCreator)
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}
		health["database"] = dbStatus

		status := http.StatusOK
		if health["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
