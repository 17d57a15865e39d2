// Package services wires calendar building, rendering, archiving and publishing.
package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/marketcal/internal/ical"
	"github.com/aristath/marketcal/internal/modules/artifacts"
	"github.com/aristath/marketcal/internal/modules/market_calendar"
	"github.com/aristath/marketcal/internal/publish"
)

// OutputFileName returns the conventional calendar file name for a year
func OutputFileName(year int) string {
	return fmt.Sprintf("us_stock_market_calendar_%d.ics", year)
}

// TablesLoader supplies the calendar tables (built-in or from a YAML file)
type TablesLoader func() (*market_calendar.Tables, error)

// ArtifactStore defines the archive operations the generator needs
type ArtifactStore interface {
	Save(ctx context.Context, a *artifacts.Artifact) error
	MarkPublished(ctx context.Context, id, key string) error
}

// Rendered is a built and serialized calendar
type Rendered struct {
	Tables *market_calendar.Tables
	Events []market_calendar.CalendarEvent
	Counts market_calendar.Counts
	Body   []byte
}

// GenerationResult describes a calendar written to disk
type GenerationResult struct {
	Path         string
	Year         int
	Counts       market_calendar.Counts
	SHA256       string
	SizeBytes    int64
	ArtifactID   string
	PublishedKey string
}

// GenerationService builds the calendar and writes it out
type GenerationService struct {
	loadTables TablesLoader
	outputDir  string
	style      ical.Style
	store      ArtifactStore     // nil disables archiving
	publisher  publish.Publisher // nil disables publishing
	now        func() time.Time
	log        zerolog.Logger
}

// NewGenerationService creates a new generation service.
// store and publisher are optional.
func NewGenerationService(
	loadTables TablesLoader,
	outputDir string,
	style ical.Style,
	store ArtifactStore,
	publisher publish.Publisher,
	log zerolog.Logger,
) *GenerationService {
	return &GenerationService{
		loadTables: loadTables,
		outputDir:  outputDir,
		style:      style,
		store:      store,
		publisher:  publisher,
		now:        time.Now,
		log:        log.With().Str("service", "generation").Logger(),
	}
}

// Style returns the render style in use
func (s *GenerationService) Style() ical.Style {
	return s.style
}

// Tables loads the configured calendar tables
func (s *GenerationService) Tables() (*market_calendar.Tables, error) {
	return s.loadTables()
}

// Render builds the event sequence and serializes it in the configured style
func (s *GenerationService) Render() (*Rendered, error) {
	tables, err := s.loadTables()
	if err != nil {
		return nil, err
	}

	events, err := market_calendar.Build(tables)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	cal := ical.NewCalendar(tables, events)
	if err := ical.Write(&body, cal, ical.Options{Style: s.style, Stamp: s.now().UTC()}); err != nil {
		return nil, fmt.Errorf("failed to render calendar: %w", err)
	}

	return &Rendered{
		Tables: tables,
		Events: events,
		Counts: market_calendar.CountEvents(events),
		Body:   body.Bytes(),
	}, nil
}

// GenerateToFile renders the calendar to <outputDir>/us_stock_market_calendar_<year>.ics,
// then archives and publishes it when those are configured.
func (s *GenerationService) GenerateToFile(ctx context.Context) (*GenerationResult, error) {
	startTime := time.Now()

	rendered, err := s.Render()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.outputDir, OutputFileName(rendered.Tables.Year))
	if err := writeCalendarFile(path, rendered.Body); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(rendered.Body)
	result := &GenerationResult{
		Path:      path,
		Year:      rendered.Tables.Year,
		Counts:    rendered.Counts,
		SHA256:    hex.EncodeToString(sum[:]),
		SizeBytes: int64(len(rendered.Body)),
	}

	s.log.Info().
		Str("path", path).
		Int("year", result.Year).
		Int("events", result.Counts.Total()).
		Int("holidays", result.Counts.Holidays).
		Int("early_closes", result.Counts.EarlyCloses).
		Int("regular", result.Counts.Regular).
		Msg("Calendar written")

	if s.store != nil {
		artifact := &artifacts.Artifact{
			Year:      result.Year,
			Style:     string(s.style),
			Path:      path,
			SHA256:    result.SHA256,
			SizeBytes: result.SizeBytes,
			Counts:    rendered.Counts,
			Events:    rendered.Events,
		}
		if err := s.store.Save(ctx, artifact); err != nil {
			return result, fmt.Errorf("failed to archive calendar: %w", err)
		}
		result.ArtifactID = artifact.ID
		s.log.Debug().Str("artifact_id", artifact.ID).Msg("Calendar archived")
	}

	if s.publisher != nil {
		key, err := s.publisher.Publish(ctx, filepath.Base(path), bytes.NewReader(rendered.Body))
		if err != nil {
			return result, fmt.Errorf("failed to publish calendar: %w", err)
		}
		result.PublishedKey = key
		if s.store != nil {
			if err := s.store.MarkPublished(ctx, result.ArtifactID, key); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("Failed to record published key")
			}
		}
	}

	s.log.Info().
		Dur("duration", time.Since(startTime)).
		Str("sha256", result.SHA256).
		Msg("Calendar generation completed")

	return result, nil
}

// writeCalendarFile writes body to path; the handle is closed on every path
func writeCalendarFile(path string, body []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &market_calendar.WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &market_calendar.WriteError{Path: path, Err: cerr}
		}
	}()

	if _, err := f.Write(body); err != nil {
		return &market_calendar.WriteError{Path: path, Err: err}
	}
	return nil
}
