package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"kodiboard-backend/internal/config"
	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/internal/infrastructure/storage"
	"kodiboard-backend/pkg/token"

	playlistHandler "kodiboard-backend/internal/domains/playlist/handler"
	playlistRepo "kodiboard-backend/internal/domains/playlist/repository"
	playlistService "kodiboard-backend/internal/domains/playlist/service"
	profileHandler "kodiboard-backend/internal/domains/profile/handler"
	profileRepo "kodiboard-backend/internal/domains/profile/repository"
	profileService "kodiboard-backend/internal/domains/profile/service"
	soundHandler "kodiboard-backend/internal/domains/sound/handler"
	soundRepo "kodiboard-backend/internal/domains/sound/repository"
	soundService "kodiboard-backend/internal/domains/sound/service"
	tagRepo "kodiboard-backend/internal/domains/tag/repository"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton for the process lifetime.
type Container struct {
	// Infrastructure
	Config   *config.Config
	DB       *database.PostgresDB
	Storage  *storage.MinIOStorage
	Verifier *token.Verifier

	// Repositories (stateless; queries run through the session binder)
	ProfileRepo  profileRepo.ProfileRepository
	SoundRepo    soundRepo.SoundRepository
	TagRepo      tagRepo.TagRepository
	PlaylistRepo playlistRepo.PlaylistRepository

	// Services
	ProfileService  profileService.Service
	SoundService    soundService.Service
	PlaylistService playlistService.Service

	// Handlers
	ProfileHandler  *profileHandler.ProfileHandler
	SoundHandler    *soundHandler.SoundHandler
	PlaylistHandler *playlistHandler.PlaylistHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer initializes the whole dependency graph in order: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	db := database.NewPostgresDB(config.LoadDatabaseConfig(cfg.Database))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE OBJECT STORAGE
	// ========================================
	log.Println("🪣 Connecting to MinIO...")

	store, err := storage.NewMinIOStorage(cfg.MinIO, time.Duration(cfg.SignedURL.TTLSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = store
	log.Println("✅ Object storage ready")

	// ========================================
	// STEP 4: INITIALIZE TOKEN VERIFIER
	// ========================================
	verifier, err := token.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init token verifier: %w", err)
	}
	c.Verifier = verifier

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	c.ProfileRepo = profileRepo.NewPostgresProfileRepository()
	c.SoundRepo = soundRepo.NewPostgresSoundRepository()
	c.TagRepo = tagRepo.NewPostgresTagRepository()
	c.PlaylistRepo = playlistRepo.NewPostgresPlaylistRepository()
}

func (c *Container) initServices() {
	c.ProfileService = profileService.NewProfileService(c.DB, c.ProfileRepo)

	c.SoundService = soundService.NewSoundService(
		c.DB,
		c.SoundRepo,
		c.TagRepo,
		c.Storage,
		c.ProfileService,
	)

	c.PlaylistService = playlistService.NewPlaylistService(
		c.DB,
		c.PlaylistRepo,
		c.SoundRepo,
		c.SoundService,
		c.ProfileService,
		c.Config.Auth.ShareTokenSalt,
	)
}

func (c *Container) initHandlers() {
	c.SoundHandler = soundHandler.NewSoundHandler(c.SoundService)
	c.PlaylistHandler = playlistHandler.NewPlaylistHandler(c.PlaylistService)
	c.ProfileHandler = profileHandler.NewProfileHandler(
		c.ProfileService,
		c.SoundService,
		c.PlaylistService,
	)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases infrastructure resources. Call on shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container...")

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connection closed")
	}

	log.Println("✅ Container cleanup complete")
}
