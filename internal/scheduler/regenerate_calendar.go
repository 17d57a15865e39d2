package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/marketcal/internal/services"
)

const regenerateTimeout = 2 * time.Minute

// CalendarGenerator produces the calendar file
type CalendarGenerator interface {
	GenerateToFile(ctx context.Context) (*services.GenerationResult, error)
}

// RegenerateCalendarJob rewrites (and archives/publishes) the calendar file
type RegenerateCalendarJob struct {
	generator CalendarGenerator
	log       zerolog.Logger
}

// NewRegenerateCalendarJob creates a new regenerate job
func NewRegenerateCalendarJob(generator CalendarGenerator, log zerolog.Logger) *RegenerateCalendarJob {
	return &RegenerateCalendarJob{
		generator: generator,
		log:       log.With().Str("job", "regenerate_calendar").Logger(),
	}
}

// Name returns the job name
func (j *RegenerateCalendarJob) Name() string {
	return "regenerate_calendar"
}

// Run executes the regeneration
func (j *RegenerateCalendarJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), regenerateTimeout)
	defer cancel()

	result, err := j.generator.GenerateToFile(ctx)
	if err != nil {
		return err
	}

	j.log.Info().
		Str("path", result.Path).
		Str("sha256", result.SHA256).
		Int("events", result.Counts.Total()).
		Msg("Calendar regenerated")

	return nil
}
