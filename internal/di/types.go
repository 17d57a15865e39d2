// Package di wires the archive, publisher and generation service together.
package di

import (
	"github.com/aristath/marketcal/internal/database"
	"github.com/aristath/marketcal/internal/modules/artifacts"
	"github.com/aristath/marketcal/internal/publish"
	"github.com/aristath/marketcal/internal/scheduler"
	"github.com/aristath/marketcal/internal/services"
)

// Container holds all application dependencies.
// ArchiveDB and ArtifactRepo are nil when archiving is disabled;
// Publisher is nil when publishing is disabled.
type Container struct {
	ArchiveDB         *database.DB
	ArtifactRepo      *artifacts.Repository
	Publisher         publish.Publisher
	GenerationService *services.GenerationService
}

// JobInstances holds the scheduled jobs of the feed server
type JobInstances struct {
	RegenerateCalendar scheduler.Job
	CheckArchive       scheduler.Job // nil when archiving is disabled
}

// Close releases the archive database
func (c *Container) Close() error {
	if c.ArchiveDB != nil {
		return c.ArchiveDB.Close()
	}
	return nil
}
