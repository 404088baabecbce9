// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"pm-go/internal/config"
	"pm-go/internal/models"

	"gorm.io/gorm"
)

// NewTestDB opens a migrated SQLite database in a per-test temp directory.
// It is closed automatically when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := models.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return db
}

// TestConfig returns a configuration suitable for in-process servers
func TestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 5000},
		Session: config.SessionConfig{
			Backend:    "memory",
			CookieName: "session",
			TTLMinutes: 60,
		},
		JWT: config.JWTConfig{SecretKey: "test-secret", Algorithm: "HS256"},
		CORS: config.CORSConfig{
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		},
		Log: config.LogConfig{Level: "error"},
	}
}
