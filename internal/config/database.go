package config

import (
	"time"

	"kodiboard-backend/internal/infrastructure/database"
)

// LoadDatabaseConfig maps the env-driven DatabaseConfig onto the pool config
// consumed by the database package.
func LoadDatabaseConfig(cfg DatabaseConfig) *database.DBConfig {
	return &database.DBConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
		DBName:   cfg.Database,
		SSLMode:  cfg.SSLMode,

		MaxConns:          int32(cfg.MaxConns),
		MinConns:          int32(cfg.MinConns),
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,

		MaxRetries:     3,
		RetryDelay:     time.Second,
		ConnectTimeout: 10 * time.Second,
	}
}
