package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/marketcal/internal/database"
)

// CheckArchiveDatabaseJob verifies integrity of the artifact archive
type CheckArchiveDatabaseJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewCheckArchiveDatabaseJob creates a new archive integrity job
func NewCheckArchiveDatabaseJob(db *database.DB, log zerolog.Logger) *CheckArchiveDatabaseJob {
	return &CheckArchiveDatabaseJob{
		db:  db,
		log: log.With().Str("job", "check_archive_database").Logger(),
	}
}

// Name returns the job name
func (j *CheckArchiveDatabaseJob) Name() string {
	return "check_archive_database"
}

// Run runs PRAGMA integrity_check against the archive, then a passive WAL checkpoint
func (j *CheckArchiveDatabaseJob) Run() error {
	if j.db == nil {
		j.log.Warn().Msg("Archive database not initialized, skipping")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.db.QuickCheck(ctx); err != nil {
		return fmt.Errorf("archive database unreachable: %w", err)
	}

	var result string
	if err := j.db.Conn().QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}

	j.log.Debug().Str("database", j.db.Name()).Msg("Database integrity OK")

	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	var busy, walFrames, checkpointed int
	if err := j.db.Conn().QueryRowContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &walFrames, &checkpointed); err != nil {
		j.log.Warn().Err(err).Msg("Failed to check WAL checkpoint")
		return nil
	}
	if walFrames > 1000 {
		j.log.Warn().
			Int("wal_frames", walFrames).
			Int("checkpointed", checkpointed).
			Msg("Archive WAL is growing large")
	}

	return nil
}
