package di

import (
	"github.com/rs/zerolog"

	"github.com/aristath/marketcal/internal/config"
	"github.com/aristath/marketcal/internal/scheduler"
)

// RegisterJobs builds the feed server jobs and registers them with the scheduler
func RegisterJobs(container *Container, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (*JobInstances, error) {
	jobs := &JobInstances{
		RegenerateCalendar: scheduler.NewRegenerateCalendarJob(container.GenerationService, log),
	}
	if err := sched.AddJob(cfg.RegenerateSchedule, jobs.RegenerateCalendar); err != nil {
		return nil, err
	}

	if container.ArchiveDB != nil {
		jobs.CheckArchive = scheduler.NewCheckArchiveDatabaseJob(container.ArchiveDB, log)
		if err := sched.AddJob("@weekly", jobs.CheckArchive); err != nil {
			return nil, err
		}
	}

	return jobs, nil
}
