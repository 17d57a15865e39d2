package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/marketcal/internal/config"
	"github.com/aristath/marketcal/internal/modules/artifacts"
	"github.com/aristath/marketcal/internal/publish"
	"github.com/aristath/marketcal/internal/services"
)

// InitializeServices creates the repository, publisher and generation service
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	var store services.ArtifactStore
	if container.ArchiveDB != nil {
		container.ArtifactRepo = artifacts.NewRepository(container.ArchiveDB.Conn())
		store = container.ArtifactRepo
	}

	if cfg.Publish != nil && cfg.Publish.Enabled {
		publisher, err := publish.NewS3Publisher(ctx, cfg.Publish, log)
		if err != nil {
			return fmt.Errorf("failed to initialize publisher: %w", err)
		}
		container.Publisher = publisher
		log.Info().Str("bucket", cfg.Publish.Bucket).Msg("Calendar publishing enabled")
	}

	container.GenerationService = services.NewGenerationService(
		cfg.LoadTables,
		cfg.OutputDir,
		cfg.Style,
		store,
		container.Publisher,
		log,
	)

	return nil
}
