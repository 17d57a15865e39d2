// Package artifacts archives generated calendar files.
package artifacts

import (
	"time"

	"github.com/aristath/marketcal/internal/modules/market_calendar"
)

// Artifact is one generated calendar file
type Artifact struct {
	ID           string                          `json:"id"`
	Year         int                             `json:"year"`
	Style        string                          `json:"style"`
	Path         string                          `json:"path"`
	SHA256       string                          `json:"sha256"`
	SizeBytes    int64                           `json:"size_bytes"`
	Counts       market_calendar.Counts          `json:"counts"`
	Events       []market_calendar.CalendarEvent `json:"-"`
	PublishedKey string                          `json:"published_key,omitempty"`
	GeneratedAt  time.Time                       `json:"generated_at"`
}
