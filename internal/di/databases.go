package di

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/marketcal/internal/config"
	"github.com/aristath/marketcal/internal/database"
)

// InitializeDatabases opens the archive database and applies its schema
func InitializeDatabases(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if !cfg.ArchiveEnabled {
		log.Debug().Msg("Artifact archive disabled")
		return nil
	}

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	cfg.DataDir = absDataDir

	archiveDB, err := database.New(database.Config{
		Path: cfg.DatabasePath(),
		Name: "archive",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize archive database: %w", err)
	}

	if err := archiveDB.Migrate(); err != nil {
		archiveDB.Close()
		return fmt.Errorf("failed to migrate archive database: %w", err)
	}

	container.ArchiveDB = archiveDB
	log.Info().Str("path", archiveDB.Path()).Msg("Archive database ready")

	return nil
}
