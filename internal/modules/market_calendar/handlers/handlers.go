// Package handlers provides HTTP handlers for the market calendar feed.
package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/marketcal/internal/modules/artifacts"
	"github.com/aristath/marketcal/internal/modules/market_calendar"
	"github.com/aristath/marketcal/internal/services"
)

const (
	floatingLayout = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"
)

// CalendarRenderer renders the configured calendar
type CalendarRenderer interface {
	Render() (*services.Rendered, error)
}

// ArtifactLister lists archived generations
type ArtifactLister interface {
	List(ctx context.Context, limit int) ([]artifacts.Artifact, error)
}

// Handler handles market calendar HTTP requests
type Handler struct {
	renderer CalendarRenderer
	archive  ArtifactLister // nil when archiving is disabled
	log      zerolog.Logger
}

// NewHandler creates a new market calendar handler
func NewHandler(
	renderer CalendarRenderer,
	archive ArtifactLister,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		renderer: renderer,
		archive:  archive,
		log:      log.With().Str("handler", "market_calendar").Logger(),
	}
}

// HandleGetICS handles GET /api/calendar/{year}.ics
// Serves the rendered calendar with an ETag of its content
func (h *Handler) HandleGetICS(w http.ResponseWriter, r *http.Request, yearParam string) {
	rendered, ok := h.renderYear(w, yearParam)
	if !ok {
		return
	}

	name := services.OutputFileName(rendered.Tables.Year)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("ETag", calendarETag(rendered.Body))

	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(rendered.Body))
}

// calendarETag hashes the body without its DTSTAMP lines, which change on every
// strict render while the calendar itself stays the same
func calendarETag(body []byte) string {
	hash := sha256.New()
	for _, line := range bytes.SplitAfter(body, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("DTSTAMP:")) {
			continue
		}
		hash.Write(line)
	}
	return `"` + hex.EncodeToString(hash.Sum(nil)) + `"`
}

// HandleGetEvents handles GET /api/calendar/{year}/events
// Returns the ordered event sequence as JSON
func (h *Handler) HandleGetEvents(w http.ResponseWriter, r *http.Request, yearParam string) {
	rendered, ok := h.renderYear(w, yearParam)
	if !ok {
		return
	}

	events := make([]map[string]interface{}, 0, len(rendered.Events))
	for _, e := range rendered.Events {
		events = append(events, eventJSON(e))
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"year":     rendered.Tables.Year,
			"name":     rendered.Tables.Name,
			"timezone": rendered.Tables.Timezone,
			"counts":   countsJSON(rendered.Counts),
			"events":   events,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetDay handles GET /api/calendar/{year}/days/{date}
// Returns the classification and trading window of one date
func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request, yearParam, dateParam string) {
	rendered, ok := h.renderYear(w, yearParam)
	if !ok {
		return
	}

	date, err := time.Parse(dateLayout, dateParam)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if date.Year() != rendered.Tables.Year {
		http.Error(w, "Date is outside the calendar year", http.StatusNotFound)
		return
	}

	session := market_calendar.NewClassifier(rendered.Tables).Session(date)

	data := map[string]interface{}{
		"date":        session.Date.Format(dateLayout),
		"class":       session.Class,
		"trading_day": session.IsTradingDay(),
		"timezone":    rendered.Tables.Timezone,
	}
	if session.Name != "" {
		data["name"] = session.Name
	}
	if session.IsTradingDay() {
		data["open"] = session.Open.Format(floatingLayout)
		data["close"] = session.Close.Format(floatingLayout)
	}

	response := map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetArtifacts handles GET /api/calendar/artifacts
// Returns archived generation history, newest first
func (h *Handler) HandleGetArtifacts(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		http.Error(w, "Artifact archive is disabled", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	list, err := h.archive.List(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list artifacts")
		http.Error(w, "Failed to list artifacts", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"artifacts": list,
			"count":     len(list),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// renderYear renders the calendar and checks it covers the requested year.
// It writes the error response itself and reports whether to continue.
func (h *Handler) renderYear(w http.ResponseWriter, yearParam string) (*services.Rendered, bool) {
	year, err := strconv.Atoi(yearParam)
	if err != nil {
		http.Error(w, "Invalid year", http.StatusBadRequest)
		return nil, false
	}

	rendered, err := h.renderer.Render()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render calendar")
		http.Error(w, "Failed to render calendar", http.StatusInternalServerError)
		return nil, false
	}

	if rendered.Tables.Year != year {
		http.Error(w, fmt.Sprintf("No calendar for %d", year), http.StatusNotFound)
		return nil, false
	}

	return rendered, true
}

func eventJSON(e market_calendar.CalendarEvent) map[string]interface{} {
	layout := floatingLayout
	if e.AllDay {
		layout = dateLayout
	}
	return map[string]interface{}{
		"kind":         e.Kind,
		"summary":      e.Summary,
		"description":  e.Description,
		"start":        e.Start.Format(layout),
		"end":          e.End.Format(layout),
		"all_day":      e.AllDay,
		"transparency": e.Transparency,
	}
}

func countsJSON(c market_calendar.Counts) map[string]interface{} {
	return map[string]interface{}{
		"dst":          c.DST,
		"holidays":     c.Holidays,
		"early_closes": c.EarlyCloses,
		"regular":      c.Regular,
		"total":        c.Total(),
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
