package artifacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/marketcal/internal/modules/market_calendar"
)

// Repository persists generated artifacts in the archive database.
// Counts and event snapshots are stored as msgpack blobs.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new artifact repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts an artifact, assigning an ID and timestamp when missing
func (r *Repository) Save(ctx context.Context, a *Artifact) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.GeneratedAt.IsZero() {
		a.GeneratedAt = time.Now()
	}

	counts, err := msgpack.Marshal(a.Counts)
	if err != nil {
		return fmt.Errorf("failed to encode artifact counts: %w", err)
	}
	events, err := msgpack.Marshal(a.Events)
	if err != nil {
		return fmt.Errorf("failed to encode artifact events: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO artifacts
			(id, year, style, path, sha256, size_bytes, event_count, counts, events, published_key, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Year, a.Style, a.Path, a.SHA256, a.SizeBytes, a.Counts.Total(),
		counts, events, nullString(a.PublishedKey), a.GeneratedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artifact %s: %w", a.ID, err)
	}

	return nil
}

// MarkPublished records the bucket key an artifact was uploaded under
func (r *Repository) MarkPublished(ctx context.Context, id, key string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE artifacts SET published_key = ? WHERE id = ?", key, id)
	if err != nil {
		return fmt.Errorf("failed to mark artifact %s published: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("artifact %s not found", id)
	}
	return nil
}

// Latest returns the most recent artifact for a year with its event snapshot.
// Returns nil, nil when nothing has been generated for the year.
func (r *Repository) Latest(ctx context.Context, year int) (*Artifact, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, year, style, path, sha256, size_bytes, counts, events, published_key, generated_at
		FROM artifacts
		WHERE year = ?
		ORDER BY generated_at DESC, rowid DESC
		LIMIT 1`, year)

	var (
		a            Artifact
		counts       []byte
		events       []byte
		publishedKey sql.NullString
		generatedAt  int64
	)
	err := row.Scan(&a.ID, &a.Year, &a.Style, &a.Path, &a.SHA256, &a.SizeBytes, &counts, &events, &publishedKey, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest artifact for %d: %w", year, err)
	}

	if err := msgpack.Unmarshal(counts, &a.Counts); err != nil {
		return nil, fmt.Errorf("failed to decode artifact counts: %w", err)
	}
	if err := msgpack.Unmarshal(events, &a.Events); err != nil {
		return nil, fmt.Errorf("failed to decode artifact events: %w", err)
	}
	floating(a.Events)

	a.PublishedKey = publishedKey.String
	a.GeneratedAt = time.Unix(generatedAt, 0).UTC()

	return &a, nil
}

// List returns artifact metadata, newest first, without event snapshots
func (r *Repository) List(ctx context.Context, limit int) ([]Artifact, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, year, style, path, sha256, size_bytes, counts, published_key, generated_at
		FROM artifacts
		ORDER BY generated_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := make([]Artifact, 0)
	for rows.Next() {
		var (
			a            Artifact
			counts       []byte
			publishedKey sql.NullString
			generatedAt  int64
		)
		if err := rows.Scan(&a.ID, &a.Year, &a.Style, &a.Path, &a.SHA256, &a.SizeBytes, &counts, &publishedKey, &generatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		if err := msgpack.Unmarshal(counts, &a.Counts); err != nil {
			return nil, fmt.Errorf("failed to decode artifact counts: %w", err)
		}
		a.PublishedKey = publishedKey.String
		a.GeneratedAt = time.Unix(generatedAt, 0).UTC()
		artifacts = append(artifacts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artifacts: %w", err)
	}

	return artifacts, nil
}

// floating restores the UTC carrier location msgpack drops when decoding times
func floating(events []market_calendar.CalendarEvent) {
	for i := range events {
		events[i].Start = events[i].Start.UTC()
		events[i].End = events[i].End.UTC()
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
