package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/marketcal/internal/config"
)

// Wire initializes all dependencies and returns a fully configured container
// Order of operations:
// 1. Initialize the archive database (when enabled)
// 2. Initialize the repository, publisher and generation service
func Wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	if err := InitializeDatabases(container, cfg, log); err != nil {
		return nil, fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := InitializeServices(ctx, container, cfg, log); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	log.Debug().Msg("Dependency injection wiring completed successfully")

	return container, nil
}
